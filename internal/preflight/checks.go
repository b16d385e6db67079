package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PythonModule names an importable module and the package that provides it.
type PythonModule struct {
	Name    string
	Import  string
	Package string
}

var pythonModules = []PythonModule{
	{Name: "PyTorch", Import: "torch", Package: "torch"},
	{Name: "Whisper", Import: "whisper", Package: "openai-whisper"},
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := checkAccess(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckWorkDirectory is CheckDirectoryAccess for directories a run creates on
// demand. A missing directory passes when its nearest existing ancestor is
// writable.
func CheckWorkDirectory(name, path string) Result {
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		return CheckDirectoryAccess(name, path)
	}
	ancestor := filepath.Dir(filepath.Clean(path))
	for {
		if _, err := os.Stat(ancestor); err == nil {
			break
		}
		parent := filepath.Dir(ancestor)
		if parent == ancestor {
			break
		}
		ancestor = parent
	}
	parent := CheckDirectoryAccess(name, ancestor)
	if !parent.Passed {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot be created under %s)", path, ancestor)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

// CheckPythonModule imports module with the interpreter and reports its version.
func CheckPythonModule(ctx context.Context, runner Runner, python string, module PythonModule) Result {
	checkCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	code := fmt.Sprintf("import %s; print(getattr(%s, '__version__', 'installed'))", module.Import, module.Import)
	out, err := runner.Run(checkCtx, python, "-c", code)
	if err != nil {
		return Result{Name: module.Name, Detail: fmt.Sprintf("not importable (installs %s on first run)", module.Package)}
	}
	return Result{Name: module.Name, Passed: true, Detail: strings.TrimSpace(out)}
}
