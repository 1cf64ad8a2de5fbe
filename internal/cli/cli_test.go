package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
	"github.com/matzehuels/conceptmap/pkg/render"
	"github.com/matzehuels/conceptmap/pkg/scene"
)

// execute runs the root command with args against an isolated config and
// cache, returning what the command wrote to its output stream.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", filepath.Join(dir, "config.toml")}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"run", "tui", "build", "serve", "lexicon", "cache", "config", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestConfigShowAppliesOverrides(t *testing.T) {
	out, err := execute(t, "", "config", "show", "--layout", "grid", "--seed", "7", "--width", "1024", "--cache", "memory")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{`strategy = "grid"`, "seed = 7", "width = 1024", `backend = "memory"`} {
		if !strings.Contains(out, want) {
			t.Errorf("config show output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigShowKeepsUnsetFlags(t *testing.T) {
	out, err := execute(t, "", "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, `strategy = "scatter"`) {
		t.Errorf("default strategy missing:\n%s", out)
	}
	if !strings.Contains(out, "width = 800") {
		t.Errorf("default canvas width missing:\n%s", out)
	}
}

func TestInvalidOverrides(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code cerrors.Code
	}{
		{"unknown layout", []string{"--layout", "hex"}, cerrors.ErrCodeInvalidLayout},
		{"unknown lexicon", []string{"--lexicon", "wordnet"}, cerrors.ErrCodeInvalidConfig},
		{"unknown cache", []string{"--cache", "disk"}, cerrors.ErrCodeInvalidConfig},
		{"file lexicon without path", []string{"--lexicon", "file"}, cerrors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", append([]string{"config", "show"}, tt.args...)...)
			if !cerrors.Has(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestConfigInitWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conceptmap", "config.toml")

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"--config", path, "config", "init"})
	if err := root.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(data), "[lexicon]") {
		t.Errorf("config file missing [lexicon] section:\n%s", data)
	}
}

func TestBuildCommandWritesFormats(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "map")

	_, err := execute(t, "", "build", "--text", "el perro persigue al gato y el perro ladra",
		"--layout", "grid", "-f", "json,dot", "-o", base)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	s, err := scene.ReadFile(base + ".json")
	if err != nil {
		t.Fatalf("read scene: %v", err)
	}
	labels := make(map[string]bool)
	for _, c := range s.Circles {
		labels[c.Label] = true
	}
	// Grid layouts register every occurrence.
	if len(s.Circles) != 5 {
		t.Errorf("circles = %d, want 5 (%v)", len(s.Circles), labels)
	}
	if !labels["perro (1)"] || !labels["gato (1)"] {
		t.Errorf("labels = %v, want perro and gato", labels)
	}

	dot, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatalf("read dot: %v", err)
	}
	if !strings.HasPrefix(string(dot), "graph G {") {
		t.Errorf("dot output = %q", dot)
	}
}

func TestBuildCommandStdout(t *testing.T) {
	out, err := execute(t, "el perro y el gato", "build", "-", "-f", "dot", "-o", "-")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.HasPrefix(out, "graph G {") {
		t.Errorf("stdout = %q, want DOT", out)
	}
}

func TestBuildCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code cerrors.Code
	}{
		{"no input", []string{"build"}, cerrors.ErrCodeInvalidInput},
		{"text and file", []string{"build", "x.txt", "--text", "hola"}, cerrors.ErrCodeInvalidInput},
		{"bad format", []string{"build", "--text", "hola", "-f", "gif"}, cerrors.ErrCodeInvalidFormat},
		{"stdout with two formats", []string{"build", "--text", "hola", "-f", "svg,png", "-o", "-"}, cerrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			if !cerrors.Has(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		output  string
		formats string
		want    []string
	}{
		{"", "svg", []string{"conceptmap.svg"}},
		{"map.svg", "svg", []string{"map.svg"}},
		{"map", "png", []string{"map.png"}},
		{"out/map.svg", "svg,png", []string{"out/map.svg", "out/map.png"}},
		{"", "json,dot", []string{"conceptmap.json", "conceptmap.dot"}},
	}
	for _, tt := range tests {
		formats := mustFormats(t, tt.formats)
		got := outputPaths(tt.output, formats)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("outputPaths(%q, %s) = %v, want %v", tt.output, tt.formats, got, tt.want)
		}
	}
}

func TestReadInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(path, []byte("desde archivo"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		stdin string
		args  []string
		text  string
		want  string
	}{
		{"text flag", "", nil, "hola mundo", "hola mundo"},
		{"stdin", "desde stdin", []string{"-"}, "", "desde stdin"},
		{"file", "", []string{path}, "", "desde archivo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readInput(strings.NewReader(tt.stdin), tt.args, tt.text)
			if err != nil {
				t.Fatalf("readInput: %v", err)
			}
			if got != tt.want {
				t.Errorf("readInput = %q, want %q", got, tt.want)
			}
		})
	}
}

func mustFormats(t *testing.T, s string) []render.Format {
	t.Helper()
	formats, err := render.ParseFormats(s)
	if err != nil {
		t.Fatalf("ParseFormats(%q): %v", s, err)
	}
	return formats
}
