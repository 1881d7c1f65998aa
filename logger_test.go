package soft3d

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// captureLogger installs a debug-level text logger for the duration of the
// test and returns its output buffer.
func captureLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return &buf
}

// =============================================================================
// Package logger
// =============================================================================

func TestNopHandler(t *testing.T) {
	var h slog.Handler = nopHandler{}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if h.Enabled(context.Background(), level) {
			t.Errorf("Enabled(%v) = true, want false", level)
		}
	}
	if err := h.Handle(context.Background(), slog.Record{}); err != nil {
		t.Errorf("Handle() = %v, want nil", err)
	}
	if _, ok := h.WithAttrs([]slog.Attr{slog.Int("tile", 3)}).(nopHandler); !ok {
		t.Error("WithAttrs() should stay a nopHandler")
	}
	if _, ok := h.WithGroup("frame").(nopHandler); !ok {
		t.Error("WithGroup() should stay a nopHandler")
	}
}

func TestSetLogger(t *testing.T) {
	tests := []struct {
		name        string
		logger      func(*bytes.Buffer) *slog.Logger
		wantEnabled bool
	}{
		{"custom", func(b *bytes.Buffer) *slog.Logger { return slog.New(slog.NewTextHandler(b, nil)) }, true},
		{"nil restores silence", func(*bytes.Buffer) *slog.Logger { return nil }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := Logger()
			t.Cleanup(func() { SetLogger(orig) })

			var buf bytes.Buffer
			SetLogger(tt.logger(&buf))
			l := Logger()
			if l == nil {
				t.Fatal("Logger() = nil")
			}
			if got := l.Enabled(context.Background(), slog.LevelError); got != tt.wantEnabled {
				t.Errorf("Enabled(Error) = %v, want %v", got, tt.wantEnabled)
			}
		})
	}
}

// =============================================================================
// Pipeline diagnostics
// =============================================================================

// warnOrder submits a blended triangle followed by two opaque ones, which
// logs an ordering warning once per frame.
func warnOrder(t *testing.T, p *Pipeline) {
	t.Helper()
	if err := p.BeginFrame(nil, DefaultClear()); err != nil {
		t.Fatalf("BeginFrame() = %v", err)
	}
	glass := NewMaterial("glass")
	glass.State = TransparentRenderState()
	wall := NewMaterial("wall")

	v0, v1, v2 := ndcTriangle(0, 0, 0.5, 0, 0, 0.5)
	for _, m := range []*Material{glass, wall, wall} {
		if err := p.Submit(NewDraw(flatShader{}, m), v0, v1, v2); err != nil {
			t.Fatalf("Submit() = %v", err)
		}
	}
	if _, err := p.EndFrame(); err != nil {
		t.Fatalf("EndFrame() = %v", err)
	}
}

func TestSetLoggerReachesPipeline(t *testing.T) {
	buf := captureLogger(t)

	p := newTestPipeline(t, 64, 64)
	warnOrder(t, p)

	out := buf.String()
	if n := strings.Count(out, "opaque draw submitted after blended"); n != 1 {
		t.Errorf("ordering warning logged %d times, want 1:\n%s", n, out)
	}
	if !strings.Contains(out, "material=wall") {
		t.Errorf("warning should name the opaque material, got: %s", out)
	}
	if !strings.Contains(out, "soft3d: frame done") {
		t.Errorf("expected frame stats at debug level, got: %s", out)
	}

	// The warning is re-armed by the next frame.
	buf.Reset()
	warnOrder(t, p)
	if n := strings.Count(buf.String(), "opaque draw submitted after blended"); n != 1 {
		t.Errorf("second frame logged %d warnings, want 1", n)
	}
}

func TestNilDrawWarns(t *testing.T) {
	buf := captureLogger(t)

	p := newTestPipeline(t, 16, 16)
	begin(t, p, nil)
	v0, v1, v2 := ndcTriangle(0, 0, 0.5, 0, 0, 0.5)
	if err := p.Submit(nil, v0, v1, v2); !errors.Is(err, ErrNilDraw) {
		t.Errorf("Submit(nil) = %v, want ErrNilDraw", err)
	}
	if err := p.SubmitMesh(&Draw{}, NewQuadMesh(1)); !errors.Is(err, ErrNilDraw) {
		t.Errorf("SubmitMesh(no shader) = %v, want ErrNilDraw", err)
	}
	end(t, p)

	if n := strings.Count(buf.String(), "draw dropped"); n != 2 {
		t.Errorf("dropped draws logged %d times, want 2:\n%s", n, buf.String())
	}
}

func TestWithLoggerOverridesPackageLogger(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))

	p := newTestPipeline(t, 64, 64, WithLogger(l))
	warnOrder(t, p)

	if !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("expected warning through WithLogger, got: %s", buf.String())
	}
	if strings.Contains(buf.String(), "frame done") {
		t.Error("debug output should be filtered at the default Info level")
	}
}

func TestWithLoggerReachesScheduler(t *testing.T) {
	pkg := captureLogger(t)

	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := newTestPipeline(t, 64, 64, WithLogger(l), WithWorkers(2))
	if err := p.Resize(128, 64); err != nil {
		t.Fatalf("Resize() = %v", err)
	}

	for _, msg := range []string{
		"parallel: worker pool started",
		"parallel: tile manager created",
		"parallel: tile grid resized",
	} {
		if !strings.Contains(buf.String(), msg) {
			t.Errorf("pipeline logger missing %q:\n%s", msg, buf.String())
		}
		if strings.Contains(pkg.String(), msg) {
			t.Errorf("package logger received %q", msg)
		}
	}
}

func TestSetLoggerDuringFrames(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	p := newTestPipeline(t, 32, 32, WithWorkers(4))
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
				SetLogger(nil)
			}
		}
	}()
	for range 20 {
		warnOrder(t, p)
	}
	close(done)
	wg.Wait()
}

func BenchmarkLoggerDisabled(b *testing.B) {
	l := Logger()
	b.ReportAllocs()
	for b.Loop() {
		l.Debug("soft3d: frame done", "triangles", 12)
	}
}
