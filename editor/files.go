package editor

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/helmgast/lore-editor/model"
	"github.com/helmgast/lore-editor/transform"
	"golang.org/x/sync/errgroup"
)

// Reasons given to the error callback.
const (
	ReasonFileReader          = "file-reader"
	ReasonUnsupportedFileType = "unsupported-file-type"
)

// File is a file chosen or dropped by the user.
type File struct {
	Name string
	// Type is the media type, like "image/png".
	Type string
	Open func() (io.ReadCloser, error)
}

// FileResult is the outcome of reading one file: an image to insert, or
// an error with its reason.
type FileResult struct {
	File   File
	Image  model.ImageRef
	Reason string
	Err    error
}

// ReadFiles reads image files into data URLs, a few at a time. Results come
// in the order of the files; a failing file does not stop the others.
func ReadFiles(ctx context.Context, files []File, parallel int) []FileResult {
	results := make([]FileResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(parallel, 1))
	for i, f := range files {
		i, f := i, f
		results[i].File = f
		if !strings.HasPrefix(f.Type, "image/") {
			results[i].Reason = ReasonUnsupportedFileType
			results[i].Err = fmt.Errorf("%s: unsupported file type %q", f.Name, f.Type)
			continue
		}
		g.Go(func() error {
			src, err := readDataURL(ctx, f)
			if err != nil {
				results[i].Reason = ReasonFileReader
				results[i].Err = fmt.Errorf("%s: %w", f.Name, err)
				return nil
			}
			results[i].Image = model.ImageRef{Src: src, Alt: f.Name}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func readDataURL(ctx context.Context, f File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.Open == nil {
		return "", errors.New("no content")
	}
	r, err := f.Open()
	if err != nil {
		return "", err
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return "data:" + f.Type + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// InsertFiles reads the files and inserts the images at the caret, one
// after the other. Failures go to the error callback and to the log; they
// never stop the session. It returns the number of images inserted.
func (e *Editor) InsertFiles(ctx context.Context, files []File) int {
	inserted := 0
	for _, res := range ReadFiles(ctx, files, e.opts.ParallelReads) {
		if res.Err != nil {
			e.fileError(res.Reason, res.Err.Error())
			continue
		}
		if err := e.apply(transform.NewInsertImageStep(res.Image)); err != nil {
			e.fileError(ReasonFileReader, err.Error())
			continue
		}
		inserted++
	}
	if inserted > 0 {
		e.notifyChange()
	}
	return inserted
}

func (e *Editor) fileError(reason, detail string) {
	e.log.Warn("File upload error", "reason", reason, "detail", detail)
	if e.onError != nil {
		e.onError(reason, detail)
	}
}
