package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/conceptmap/pkg/scene"
)

func TestRunCommandDrawsEveryLine(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frame.json")

	stdout, err := execute(t, "el perro ladra\nel gato maúlla al perro\n",
		"run", "-o", out, "--fps", "0", "--quiet", "--layout", "grid")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.Count(stdout, "Ingrese el texto: "); got < 2 {
		t.Errorf("prompt printed %d times, want at least 2:\n%s", got, stdout)
	}

	// The file holds the last frame only.
	s, err := scene.ReadFile(out)
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	var labels []string
	for _, c := range s.Circles {
		labels = append(labels, c.Label)
	}
	if len(labels) != 3 || labels[0] != "gato (1)" {
		t.Errorf("last frame labels = %v, want gato, maúlla, perro", labels)
	}
}

func TestRunCommandMaxFrames(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frame.json")

	_, err := execute(t, "primero texto\nsegundo texto\ntercero texto\n",
		"run", "-o", out, "--fps", "0", "--quiet", "--max-frames", "1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	s, err := scene.ReadFile(out)
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	for _, c := range s.Circles {
		if strings.HasPrefix(c.Label, "segundo") {
			t.Errorf("drew a second frame: %v", c.Label)
		}
	}
}

func TestRunCommandRejectsUnknownFormat(t *testing.T) {
	_, err := execute(t, "", "run", "-o", filepath.Join(t.TempDir(), "frame.gif"))
	if err == nil {
		t.Fatal("run with a .gif output succeeded")
	}
}

func TestRunCommandPanRedrawsLastText(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frame.json")

	_, err := execute(t, "el perro ladra\n:pan 30 20\n",
		"run", "-o", out, "--fps", "0", "--quiet", "--layout", "grid")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	s, err := scene.ReadFile(out)
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if s.Offset.X != 30 || s.Offset.Y != 20 {
		t.Errorf("offset = %v, want (30,20)", s.Offset)
	}
	if len(s.Circles) != 2 {
		t.Errorf("circles = %d, want the last text's 2", len(s.Circles))
	}
}
