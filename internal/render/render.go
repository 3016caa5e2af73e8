// Package render turns dot documents into images with the Graphviz dot
// binary and handles the files around it.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"
)

var (
	// ErrDotNotFound is returned when the Graphviz binary is not installed.
	ErrDotNotFound = errors.New("graphviz dot binary not found")
	// ErrUnsupportedFormat is returned for output formats dot does not write.
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// DefaultBinary is the renderer looked up on PATH when Renderer.Binary is empty.
const DefaultBinary = "dot"

var formats = map[string]bool{
	"bmp": true, "canon": true, "dot": true, "eps": true, "gif": true,
	"gv": true, "jpe": true, "jpeg": true, "jpg": true, "json": true,
	"pdf": true, "plain": true, "png": true, "ps": true, "svg": true,
	"svgz": true, "tif": true, "tiff": true, "webp": true, "xdot": true,
}

// NormalizeFormat lower-cases format and checks that dot can produce it.
func NormalizeFormat(format string) (string, error) {
	f := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	if !formats[f] {
		return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedFormat, format, strings.Join(Formats(), ", "))
	}
	return f, nil
}

// Formats returns the supported format names, sorted.
func Formats() []string {
	out := make([]string, 0, len(formats))
	for f := range formats {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Renderer runs the Graphviz dot command.
type Renderer struct {
	// Binary is the dot executable name or path.
	Binary string
	Logger *slog.Logger
}

func (r *Renderer) binary() string {
	if r.Binary == "" {
		return DefaultBinary
	}
	return r.Binary
}

func (r *Renderer) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

// LookPath resolves the dot binary.
func (r *Renderer) LookPath() (string, error) {
	path, err := exec.LookPath(r.binary())
	if err != nil {
		return "", fmt.Errorf("%w: %s (install Graphviz, https://graphviz.org/download/)", ErrDotNotFound, r.binary())
	}
	return path, nil
}

// Render pipes src into dot and writes outBase.<format>. It returns the path
// of the written image.
func (r *Renderer) Render(ctx context.Context, src []byte, outBase, format string) (string, error) {
	format, err := NormalizeFormat(format)
	if err != nil {
		return "", err
	}
	bin, err := r.LookPath()
	if err != nil {
		return "", err
	}
	out := outBase + "." + format
	if err := ensureDir(out); err != nil {
		return "", err
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-T"+format, "-o", out)
	cmd.Stdin = bytes.NewReader(src)
	cmd.Stderr = &stderr

	start := time.Now()
	r.logger().Debug("running dot", "binary", bin, "format", format, "output", out)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("dot: %w", ctx.Err())
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("dot -T%s: %w: %s", format, err, msg)
		}
		return "", fmt.Errorf("dot -T%s: %w", format, err)
	}
	r.logger().Debug("dot finished", "output", out, "duration", time.Since(start))
	return out, nil
}

// WriteSource writes the dot document to path, creating parent directories.
func WriteSource(path string, src []byte) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	return nil
}

// viewerCommand returns the platform command that opens a file with its
// default application.
func viewerCommand(goos, path string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "cmd", []string{"/c", "start", "", path}
	default:
		return "xdg-open", []string{path}
	}
}

// Open shows path in the platform viewer without waiting for it to exit.
func Open(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, args := viewerCommand(runtime.GOOS, path)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	return cmd.Process.Release()
}
