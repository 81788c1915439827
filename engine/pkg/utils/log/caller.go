package log

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// shortCaller renders a caller as dir/file.go:line.
func shortCaller(f *runtime.Frame) (string, string) {
	dir := filepath.Base(filepath.Dir(f.File))
	return "", fmt.Sprintf("%s/%s:%d", dir, filepath.Base(f.File), f.Line)
}
