package sheetpeek

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Viewer displays an image. Implementations must not block until the
// display is dismissed.
type Viewer interface {
	Show(ctx context.Context, img *Image) error
}

// ViewerFunc adapts a function to the Viewer interface.
type ViewerFunc func(ctx context.Context, img *Image) error

// Show calls f(ctx, img).
func (f ViewerFunc) Show(ctx context.Context, img *Image) error {
	return f(ctx, img)
}

// NopViewer discards images.
type NopViewer struct{}

// Show does nothing.
func (NopViewer) Show(context.Context, *Image) error { return nil }

// SystemViewer writes the image to a temporary file and opens it with the
// platform opener or a configured command. Files are created in one
// sheetpeek-* directory per viewer, which Close removes.
type SystemViewer struct {
	// Command overrides the platform opener. "{}" is replaced by the file
	// path; without it the path is appended.
	Command string
	// Dir is the parent of the temporary directory (default os.TempDir()).
	Dir string
	// Log receives viewer diagnostics.
	Log logrus.FieldLogger

	mu     sync.Mutex
	tmpDir string
}

// Close removes the viewer's temporary files. A viewer still reading a
// file when Close runs may fail to show it.
func (v *SystemViewer) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.tmpDir == "" {
		return nil
	}
	err := os.RemoveAll(v.tmpDir)
	v.tmpDir = ""
	return err
}

func (v *SystemViewer) fileDir() (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.tmpDir == "" {
		dir, err := os.MkdirTemp(v.Dir, "sheetpeek-")
		if err != nil {
			return "", err
		}
		v.tmpDir = dir
	}
	return v.tmpDir, nil
}

// Show starts the viewer process and returns without waiting for it.
func (v *SystemViewer) Show(ctx context.Context, img *Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir, err := v.fileDir()
	if err != nil {
		return errors.Wrap(err, "create viewer directory")
	}
	tmp, err := os.CreateTemp(dir, img.Cell+"-*"+img.Extension)
	if err != nil {
		return errors.Wrap(err, "create viewer file")
	}
	if _, err := tmp.Write(img.Data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write viewer file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "write viewer file")
	}

	name, args := openerCommand(runtime.GOOS, v.Command, tmp.Name())
	if name == "" {
		return errors.Errorf("no image viewer for %s", runtime.GOOS)
	}
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "start viewer %s", name)
	}
	if v.Log != nil {
		v.Log.WithFields(logrus.Fields{"viewer": name, "file": tmp.Name(), "pid": cmd.Process.Pid}).Debug("viewer started")
	}
	// reap the child without blocking the run
	go cmd.Wait()
	return nil
}

// openerCommand builds the viewer command line for a file.
func openerCommand(goos, command, path string) (string, []string) {
	if command = strings.TrimSpace(command); command != "" {
		fields := strings.Fields(command)
		replaced := false
		for i, f := range fields {
			if strings.Contains(f, "{}") {
				fields[i] = strings.ReplaceAll(f, "{}", path)
				replaced = true
			}
		}
		if !replaced {
			fields = append(fields, path)
		}
		return fields[0], fields[1:]
	}

	switch goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		return "xdg-open", []string{path}
	}
	return "", nil
}
