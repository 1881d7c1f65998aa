// Command soft3d-demo renders an orbiting, shadowed scene with the soft3d
// software rasterizer and writes every frame as a PNG.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/soft3d"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML render config")
		width      = flag.Int("width", 0, "image width")
		height     = flag.Int("height", 0, "image height")
		frames     = flag.Int("frames", 0, "number of frames")
		workers    = flag.Int("workers", 0, "tile workers (0 = GOMAXPROCS)")
		mode       = flag.String("mode", "", "raster mode: bbox or scanline")
		output     = flag.String("output", "", "output directory")
		noCaption  = flag.Bool("no-caption", false, "do not stamp frame stats")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		soft3d.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	cfg := defaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = loadConfig(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	// Flags given explicitly override the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "frames":
			cfg.Frames = *frames
		case "workers":
			cfg.Workers = *workers
		case "mode":
			cfg.RasterMode = *mode
		case "output":
			cfg.Output = *output
		case "no-caption":
			cfg.Caption = !*noCaption
		}
	})
	if err := cfg.validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("Render failed: %v", err)
	}
	log.Printf("Rendered %d frames to %s (%dx%d)\n", cfg.Frames, cfg.Output, cfg.Width, cfg.Height)
}

func run(cfg Config) error {
	if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
		return err
	}

	res := soft3d.NewResources()
	sc := newScene(res)

	shadow, err := soft3d.New(cfg.ShadowSize, cfg.ShadowSize,
		append(cfg.options(res), soft3d.WithDepthOnly())...)
	if err != nil {
		return fmt.Errorf("shadow target: %w", err)
	}
	defer shadow.Close()

	p, err := soft3d.New(cfg.Width, cfg.Height, cfg.options(res)...)
	if err != nil {
		return fmt.Errorf("color target: %w", err)
	}
	defer p.Close()

	bar := progressbar.Default(int64(cfg.Frames))
	defer bar.Close()

	// Encoding overlaps rendering of the next frame; the image handed to
	// each goroutine is a private copy.
	cv := soft3d.ClearValues{Color: cfg.Clear, Depth: 1}
	return encodeFrames(cfg.Frames, cfg.Encoders, func(i int, g *errgroup.Group) error {
		t := float32(i) / float32(cfg.Frames)

		light := sc.lightCamera(t)
		if err := sc.renderShadow(shadow, light); err != nil {
			return fmt.Errorf("frame %d shadow pass: %w", i, err)
		}

		ctx := sc.context(t, float32(cfg.Width)/float32(cfg.Height), light, shadow.DepthMap())
		stats, err := sc.render(p, ctx, cv)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}

		path := filepath.Join(cfg.Output, fmt.Sprintf("frame_%04d.png", i))
		err = p.Present(soft3d.PresenterFunc(func(img *image.NRGBA) error {
			if cfg.Caption {
				drawCaption(img, caption(i, stats))
			}
			g.Go(func() error {
				return savePNG(path, img)
			})
			return nil
		}))
		if err != nil {
			return err
		}
		_ = bar.Add(1)
		return nil
	})
}

// encodeFrames calls frame for frames 0..n-1 with at most encoders PNG
// writers in flight. Writers already started are waited for even when a
// frame fails.
func encodeFrames(n, encoders int, frame func(i int, g *errgroup.Group) error) error {
	var g errgroup.Group
	g.SetLimit(max(encoders, 1))
	for i := range n {
		if err := frame(i, &g); err != nil {
			return errors.Join(err, g.Wait())
		}
	}
	return g.Wait()
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path) //nolint:gosec // path is built from the output flag
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
