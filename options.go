package soft3d

import (
	"log/slog"

	"github.com/gogpu/soft3d/internal/buffer"
	"github.com/gogpu/soft3d/internal/parallel"
)

// ColorFormat is the packing of the 32-bit color plane.
type ColorFormat = buffer.Format

// Color plane formats.
const (
	FormatRGBA8 = buffer.FormatRGBA8
	FormatBGRA8 = buffer.FormatBGRA8
	FormatGray8 = buffer.FormatGray8
)

// Option configures a Pipeline during creation.
//
// Example:
//
//	// Defaults: GOMAXPROCS workers, bounding-box rasterization
//	p, _ := soft3d.New(800, 600)
//
//	// Depth-only target for a shadow pass, single worker
//	sp, _ := soft3d.New(1024, 1024, soft3d.WithDepthOnly(), soft3d.WithWorkers(1))
type Option func(*options)

// options holds optional configuration for Pipeline creation.
type options struct {
	workers   int
	queueCap  int
	mode      RasterMode
	depthOnly bool
	format    ColorFormat
	resources *Resources
	padding   int
	logger    *slog.Logger
}

// defaultOptions returns the default pipeline options.
func defaultOptions() options {
	return options{
		workers:  0, // GOMAXPROCS
		queueCap: parallel.DefaultQueueCapacity,
		mode:     RasterBoundingBox,
		format:   FormatRGBA8,
		padding:  1,
	}
}

// WithWorkers sets the number of tile workers. Zero or negative selects
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithQueueCapacity sets how many triangles each tile queues before the
// pipeline drains all tiles mid-frame. Non-positive values keep the default.
func WithQueueCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.queueCap = n
		}
	}
}

// WithRasterMode selects the candidate pixel strategy.
func WithRasterMode(m RasterMode) Option {
	return func(o *options) {
		o.mode = m
	}
}

// WithDepthOnly makes the pipeline a depth-only target, as used for shadow
// maps. The color plane is untouched and fragment shaders only run for
// materials that set PropAlphaClip, so they can discard.
func WithDepthOnly() Option {
	return func(o *options) {
		o.depthOnly = true
	}
}

// WithColorFormat sets the packing of the color plane.
// Invalid formats are ignored.
func WithColorFormat(f ColorFormat) Option {
	return func(o *options) {
		if f.IsValid() {
			o.format = f
		}
	}
}

// WithResources shares a resource arena between pipelines. By default every
// pipeline creates its own.
func WithResources(r *Resources) Option {
	return func(o *options) {
		o.resources = r
	}
}

// WithBoundsPadding grows every triangle's screen bounds by n pixels before
// binning. Negative values are treated as zero.
func WithBoundsPadding(n int) Option {
	return func(o *options) {
		o.padding = max(n, 0)
	}
}

// WithLogger overrides the package logger for one pipeline, including the
// diagnostics of its tile scheduler and worker pool.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
