package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	teamserr "github.com/amterp/teams/internal/errors"
	"github.com/amterp/teams/internal/model"
	"go.uber.org/zap"
)

// BaseName is the file name stem of exported images.
const BaseName = "team-assignments"

// FileName returns the export file name, optionally suffixed with t in unix milliseconds.
func FileName(timestamped bool, t time.Time, ext string) string {
	if timestamped {
		return fmt.Sprintf("%s-%d.%s", BaseName, t.UnixMilli(), ext)
	}
	return fmt.Sprintf("%s.%s", BaseName, ext)
}

// Sink receives an encoded image and reports where it ended up.
type Sink interface {
	Save(data []byte, ext string, now time.Time) (string, error)
}

// DirSink writes timestamped files into a directory.
type DirSink struct {
	Dir string
}

// Save writes data to a temp file in the directory and renames it into place,
// so a failed export never leaves a partial image behind.
func (d DirSink) Save(data []byte, ext string, now time.Time) (string, error) {
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	tmp, err := os.CreateTemp(d.Dir, "."+BaseName+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	// CreateTemp uses 0600; saved images are ordinary user files.
	if err := tmp.Chmod(imageFileMode); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to set image permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close image: %w", err)
	}

	path := filepath.Join(d.Dir, FileName(true, now, ext))
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to move image into place: %w", err)
	}
	return path, nil
}

// imageFileMode is the permission of images saved by DirSink.
const imageFileMode os.FileMode = 0644

// WriterSink streams the image to a writer under the plain file name.
type WriterSink struct {
	W io.Writer
}

// Save writes data to the underlying writer.
func (w WriterSink) Save(data []byte, ext string, _ time.Time) (string, error) {
	if _, err := w.W.Write(data); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return FileName(false, time.Time{}, ext), nil
}

// Result describes a completed export.
type Result struct {
	Location string `json:"location"`
	Bytes    int    `json:"bytes"`
}

// Exporter captures sessions and hands the image to a sink.
type Exporter struct {
	capturer Capturer
	logger   *zap.Logger
	now      func() time.Time
}

// NewExporter creates an exporter. A nil logger discards log output.
func NewExporter(capturer Capturer, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{capturer: capturer, logger: logger, now: time.Now}
}

// Ext returns the extension of the images this exporter produces.
func (e *Exporter) Ext() string {
	return e.capturer.Ext()
}

// Render captures a snapshot of s. Failures are returned as *errors.ExportError.
func (e *Exporter) Render(s model.Session) ([]byte, error) {
	snapshot := s.Clone()
	data, err := e.capturer.Capture(snapshot)
	if err != nil {
		e.logger.Error("export render failed", zap.Error(err))
		return nil, teamserr.RenderFailed(err)
	}
	return data, nil
}

// Export renders s as it is now and saves it to sink.
func (e *Exporter) Export(ctx context.Context, s model.Session, sink Sink) (Result, error) {
	started := e.now()
	data, err := e.Render(s)
	if err != nil {
		return Result{}, err
	}

	if err := ctx.Err(); err != nil {
		return Result{}, teamserr.WriteFailed(err)
	}

	location, err := sink.Save(data, e.capturer.Ext(), started)
	if err != nil {
		e.logger.Error("export write failed", zap.Error(err))
		return Result{}, teamserr.WriteFailed(err)
	}

	e.logger.Info("exported groups",
		zap.String("location", location),
		zap.Int("bytes", len(data)),
		zap.Duration("took", e.now().Sub(started)))
	return Result{Location: location, Bytes: len(data)}, nil
}
