package export

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	teamserr "github.com/amterp/teams/internal/errors"
	"github.com/amterp/teams/internal/model"
	"go.uber.org/zap"
)

type fakeCapturer struct {
	data []byte
	err  error
	got  model.Session
}

func (f *fakeCapturer) Capture(s model.Session) ([]byte, error) {
	f.got = s
	return f.data, f.err
}

func (f *fakeCapturer) Ext() string {
	return "png"
}

type failingSink struct{}

func (failingSink) Save([]byte, string, time.Time) (string, error) {
	return "", errors.New("disk full")
}

func fixedNow(e *Exporter, t time.Time) {
	e.now = func() time.Time { return t }
}

func TestFileName(t *testing.T) {
	at := time.UnixMilli(1700000000123)

	if got := FileName(false, at, "png"); got != "team-assignments.png" {
		t.Errorf("Unexpected plain name %q", got)
	}
	if got := FileName(true, at, "png"); got != "team-assignments-1700000000123.png" {
		t.Errorf("Unexpected timestamped name %q", got)
	}
}

func TestExporter_DirSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Documents")
	capt := &fakeCapturer{data: []byte("image")}
	e := NewExporter(capt, zap.NewNop())
	fixedNow(e, time.UnixMilli(42))

	res, err := e.Export(context.Background(), sampleSession(), DirSink{Dir: dir})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	want := filepath.Join(dir, "team-assignments-42.png")
	if res.Location != want {
		t.Errorf("Expected %s, got %s", want, res.Location)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("Exported file missing: %v", err)
	}
	if string(data) != "image" || res.Bytes != 5 {
		t.Errorf("Unexpected file contents %q (%d bytes)", data, res.Bytes)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("Expected only the image in %s, found %d entries", dir, len(entries))
	}
}

func TestDirSink_ReadableFileMode(t *testing.T) {
	dir := t.TempDir()

	path, err := DirSink{Dir: dir}.Save([]byte("image"), "png", time.UnixMilli(7))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if got := info.Mode().Perm(); got != 0644 {
		t.Errorf("Expected mode 0644, got %v", got)
	}
}

func TestExporter_WriterSink(t *testing.T) {
	var buf bytes.Buffer
	e := NewExporter(&fakeCapturer{data: []byte("png-bytes")}, nil)

	res, err := e.Export(context.Background(), sampleSession(), WriterSink{W: &buf})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if res.Location != "team-assignments.png" {
		t.Errorf("Expected plain file name, got %s", res.Location)
	}
	if buf.String() != "png-bytes" {
		t.Errorf("Unexpected output %q", buf.String())
	}
}

func TestExporter_UsesSnapshot(t *testing.T) {
	capt := &fakeCapturer{data: []byte("x")}
	e := NewExporter(capt, nil)

	s := sampleSession()
	if _, err := e.Render(s); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	s.Roster[0].Name = "Changed"

	if capt.got.Roster[0].Name != "Alice" {
		t.Errorf("Capturer saw a later mutation: %q", capt.got.Roster[0].Name)
	}
}

func TestExporter_RenderFailure(t *testing.T) {
	e := NewExporter(&fakeCapturer{err: errors.New("boom")}, nil)
	dir := t.TempDir()

	_, err := e.Export(context.Background(), sampleSession(), DirSink{Dir: dir})
	if !teamserr.IsExportError(err) {
		t.Fatalf("Expected export error, got %v", err)
	}
	var exportErr *teamserr.ExportError
	if !errors.As(err, &exportErr) || exportErr.Stage != "render" {
		t.Errorf("Expected render stage, got %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Expected no files after a failed render, found %d", len(entries))
	}
}

func TestExporter_WriteFailure(t *testing.T) {
	e := NewExporter(&fakeCapturer{data: []byte("x")}, nil)

	_, err := e.Export(context.Background(), sampleSession(), failingSink{})
	var exportErr *teamserr.ExportError
	if !errors.As(err, &exportErr) || exportErr.Stage != "write" {
		t.Fatalf("Expected write stage export error, got %v", err)
	}
	if !errors.Is(err, teamserr.ErrExport) {
		t.Error("Expected errors.Is(err, ErrExport)")
	}
}

func TestExporter_CanceledBeforeWrite(t *testing.T) {
	e := NewExporter(&fakeCapturer{data: []byte("x")}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	_, err := e.Export(ctx, sampleSession(), WriterSink{W: &buf})
	if !teamserr.IsExportError(err) || !errors.Is(err, context.Canceled) {
		t.Errorf("Expected canceled export error, got %v", err)
	}
	if buf.Len() != 0 {
		t.Error("Nothing should be written after cancellation")
	}
}
