package buildinfo

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	i := Get()
	if i.Version != Version {
		t.Errorf("Version = %q, want %q", i.Version, Version)
	}
	if i.Commit == "" || i.Date == "" || i.GoVersion == "" {
		t.Errorf("Get left fields empty: %+v", i)
	}
}

func TestTemplate(t *testing.T) {
	if !strings.HasPrefix(Template(), "{{.Name}} version ") {
		t.Errorf("Template = %q", Template())
	}
	if !strings.Contains(String(), "go: ") {
		t.Errorf("String = %q", String())
	}
}
