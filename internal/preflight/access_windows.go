//go:build windows

package preflight

import (
	"os"

	"golang.org/x/sys/windows"
)

// checkAccess has no access(2) equivalent on Windows, so it probes with a
// throwaway file.
func checkAccess(path string) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return err
	}
	if attrs&windows.FILE_ATTRIBUTE_DIRECTORY == 0 {
		return os.ErrInvalid
	}
	f, err := os.CreateTemp(path, ".access-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
