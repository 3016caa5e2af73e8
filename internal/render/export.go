package render

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Options describes where and how a document is exported.
type Options struct {
	// File is the output path without extension.
	File   string
	Format string
	// KeepSource keeps File.dot after a successful render.
	KeepSource bool
	// SourceOnly writes File.dot and skips rendering.
	SourceOnly bool
	// View opens the image once it is written.
	View bool
}

// Result lists the files left on disk by Export.
type Result struct {
	Source string
	Image  string
}

// SourcePath returns the .dot path for a given output base.
func SourcePath(file string) string { return file + ".dot" }

// Export writes src next to the image, renders it, and removes the source
// again unless KeepSource is set. When dot fails the source is left in place
// and its path is returned with the error.
func (r *Renderer) Export(ctx context.Context, src []byte, opts Options) (Result, error) {
	if opts.File == "" {
		return Result{}, errors.New("export file name is empty")
	}
	if !opts.SourceOnly {
		if _, err := NormalizeFormat(opts.Format); err != nil {
			return Result{}, err
		}
		if _, err := r.LookPath(); err != nil {
			return Result{}, err
		}
	}

	var res Result
	res.Source = SourcePath(opts.File)
	if err := WriteSource(res.Source, src); err != nil {
		return Result{}, err
	}
	if opts.SourceOnly {
		return res, nil
	}

	image, err := r.Render(ctx, src, opts.File, opts.Format)
	if err != nil {
		return res, err
	}
	res.Image = image
	r.logger().Debug("rendered", "image", image, "source", res.Source)

	if !opts.KeepSource && image != res.Source {
		if err := os.Remove(res.Source); err != nil && !errors.Is(err, os.ErrNotExist) {
			return res, fmt.Errorf("removing %s: %w", res.Source, err)
		}
		res.Source = ""
	}

	if opts.View {
		if err := Open(ctx, image); err != nil {
			return res, err
		}
	}
	return res, nil
}
