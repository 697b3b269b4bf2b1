package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"timbre/internal/dataset"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckReadableDirectory verifies that the directory exists and can be listed.
func CheckReadableDirectory(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "readable")
}

func checkDirectory(name, path string, mode uint32, okDetail string) Result {
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
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, okDetail)}
}

// CheckDatasetFile verifies that the store exists, is readable, decodes, and
// holds at least one usable record.
func CheckDatasetFile(ctx context.Context, name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}

	ds, err := dataset.Load(ctx, path)
	if err != nil {
		var loadErr *dataset.LoadError
		if errors.As(err, &loadErr) && loadErr.Index >= 0 {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: corrupt at record %d: %v)", path, loadErr.Index, loadErr.Err)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if ds.Len() == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: no usable records)", path)}
	}

	detail := fmt.Sprintf("%s (%d records, %d labels, dim %d", path, ds.Len(), len(ds.Labels()), ds.Dim)
	if len(ds.Issues) > 0 {
		detail += fmt.Sprintf(", %d skipped", len(ds.Issues))
	}
	return Result{Name: name, Passed: true, Detail: detail + ")"}
}
