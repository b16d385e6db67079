package preflight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"transcriber/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckWorkDirectory_WillBeCreated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b")
	result := CheckWorkDirectory("data", path)
	if !result.Passed || !strings.Contains(result.Detail, "will be created") {
		t.Fatalf("expected pass for creatable dir, got %+v", result)
	}
}

type fakeRunner struct {
	out map[string]string
}

func (f fakeRunner) Run(_ context.Context, argv ...string) (string, error) {
	code := argv[len(argv)-1]
	for module, version := range f.out {
		if strings.HasPrefix(code, "import "+module+";") {
			return version + "\n", nil
		}
	}
	return "", errors.New("ModuleNotFoundError")
}

func TestCheckPythonModule(t *testing.T) {
	runner := fakeRunner{out: map[string]string{"torch": "2.4.1"}}
	ok := CheckPythonModule(context.Background(), runner, "python3", pythonModules[0])
	if !ok.Passed || ok.Detail != "2.4.1" {
		t.Fatalf("expected torch to pass with version, got %+v", ok)
	}
	missing := CheckPythonModule(context.Background(), runner, "python3", pythonModules[1])
	if missing.Passed || !strings.Contains(missing.Detail, "openai-whisper") {
		t.Fatalf("expected whisper to fail with package hint, got %+v", missing)
	}
}

func TestRunAllSkipsPythonWithoutInterpreter(t *testing.T) {
	cfg := config.Default()
	root := t.TempDir()
	cfg.Paths.DataDir = filepath.Join(root, "data")
	cfg.Paths.OutputDir = filepath.Join(root, "out")
	cfg.Paths.StateDir = filepath.Join(root, "state")

	results := RunAll(context.Background(), &cfg, nil, "")
	if len(results) != 3 {
		t.Fatalf("expected only directory checks, got %+v", results)
	}
	for _, r := range results {
		if !r.Passed {
			t.Fatalf("expected %s to pass, got %s", r.Name, r.Detail)
		}
	}

	results = RunAll(context.Background(), &cfg, fakeRunner{out: map[string]string{"torch": "2.4.1", "whisper": "20240930"}}, "python3")
	if len(results) != 5 || !results[3].Passed || !results[4].Passed {
		t.Fatalf("expected python checks to pass, got %+v", results)
	}
}
