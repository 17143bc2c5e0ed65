package main

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/tocmark/tocmark/internal/tuitest"
)

func TestEditorOpensSourceWithoutToolkit(t *testing.T) {
	t.Parallel()

	cmdDir := moduleDir(t)
	source := writeFixturePDF(t)
	binary := buildBinary(t, cmdDir)

	rec, err := tuitest.Run(context.Background(), tuitest.Session{
		Command: []string{binary, "-no-alt-screen", "-cpdf", "definitely-not-cpdf", "-source", source},
		Dir:     cmdDir,
		Steps: []tuitest.Step{
			tuitest.Pause(time.Second),
			tuitest.Type("Introduction 1"),
			tuitest.Pause(300 * time.Millisecond),
			tuitest.Press(tuitest.KeyTab),
			tuitest.Pause(300 * time.Millisecond),
			tuitest.Press(tuitest.KeyCtrlG),
			tuitest.Pause(500 * time.Millisecond),
			tuitest.Press(tuitest.KeyCtrlC),
		},
		Timeout: 15 * time.Second,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	if !rec.SawText("tocmark") {
		t.Fatal("header never rendered")
	}
	if !rec.SawText("cpdf not found") {
		t.Fatal("missing-toolkit notice never rendered")
	}
	if !rec.SawText("Introduction 1") {
		t.Fatal("typed outline never rendered")
	}
	if !rec.SawText("Indent or unindent") {
		t.Fatal("key cheatsheet never rendered after Ctrl+G")
	}
}

func TestPickerOpensWithoutSource(t *testing.T) {
	t.Parallel()

	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)

	rec, err := tuitest.Run(context.Background(), tuitest.Session{
		Command: []string{binary, "-no-alt-screen", "-cpdf", "definitely-not-cpdf"},
		Dir:     cmdDir,
		Steps: []tuitest.Step{
			tuitest.Pause(time.Second),
			tuitest.Press(tuitest.KeyEsc),
		},
		Timeout: 15 * time.Second,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	if !rec.SawText("Pick a PDF") {
		t.Fatal("file picker heading never rendered")
	}
}

func writeFixturePDF(t *testing.T) string {
	t.Helper()
	// The toolkit is absent in these runs, so the file is never parsed as a
	// PDF; it only has to exist for the -source check.
	path := filepath.Join(t.TempDir(), "fixture.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4\n%%EOF\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func moduleDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime caller unavailable")
	}
	return filepath.Dir(file)
}

func buildBinary(t *testing.T, cmdDir string) string {
	t.Helper()
	tmp := t.TempDir()
	name := "tocmark-integration"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	binPath := filepath.Join(tmp, name)
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = cmdDir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build CLI: %v\n%s", err, output)
	}
	return binPath
}
