// Command swrender renders a YAML scene with the software rasterizer and
// writes the resulting buffers as BMP images.
//
// Usage:
//
//	swrender [flags] scene.yaml
//
// Each dump named by -dump is written to the output directory as
// <scene>-<dump>.bmp: color, depth, stencil and texture (level 0 of the
// scene texture).
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/softgpu"
	"github.com/gogpu/softgpu/gstate"
)

func main() {
	var (
		out     = flag.String("out", ".", "output directory")
		dumps   = flag.String("dump", "color", "comma separated dumps: color, depth, stencil, texture")
		workers = flag.Int("workers", 0, "worker goroutines (0 = GOMAXPROCS)")
		filter  = flag.String("filter", "auto", "texture filter override: auto, forcelinear, forcenearest")
		verbose = flag.Bool("v", false, "log compilation events")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: swrender [flags] scene.yaml")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(logger, flag.Arg(0), *out, *dumps, *workers, *filter); err != nil {
		logger.Error("swrender failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger, scenePath, out, dumps string, workers int, filter string) error {
	f, err := parseEnum[gstate.FilterOverride]("filter override", filter, filterOverride)
	if err != nil {
		return err
	}
	sc, err := LoadScene(scenePath)
	if err != nil {
		return err
	}

	softgpu.SetLogger(logger)
	r := softgpu.New(softgpu.WithWorkers(workers), softgpu.WithFilterOverride(f))
	defer r.Close()

	start := time.Now()
	st, err := sc.Render(r)
	if err != nil {
		return err
	}
	stats := r.Stats()
	logger.Info("scene rendered",
		slog.String("scene", scenePath),
		slog.Int("draws", len(sc.Draws)),
		slog.Duration("elapsed", time.Since(start)),
		slog.Uint64("pixel_compiles", stats.PixelFuncs.Compiles),
		slog.Uint64("sampler_compiles", stats.Samplers.Compiles))

	name := strings.TrimSuffix(filepath.Base(scenePath), filepath.Ext(scenePath))
	return writeDumps(r, st, out, name, dumps)
}

// writeDumps encodes the requested buffers concurrently.
func writeDumps(r *softgpu.Renderer, st *gstate.State, dir, name, dumps string) error {
	type job struct {
		dump     string
		snapshot func() (image.Image, error)
	}
	var jobs []job
	for _, d := range strings.Split(dumps, ",") {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		snapshot, err := dumpFunc(r, st, d)
		if err != nil {
			return err
		}
		jobs = append(jobs, job{d, snapshot})
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	var g errgroup.Group
	for _, j := range jobs {
		path := filepath.Join(dir, name+"-"+j.dump+".bmp")
		g.Go(func() error {
			img, err := j.snapshot()
			if err != nil {
				return fmt.Errorf("%s: %w", j.dump, err)
			}
			if err := softgpu.SaveBMP(path, img); err != nil {
				return fmt.Errorf("%s: %w", j.dump, err)
			}
			softgpu.Logger().Info("dump written", slog.String("path", path))
			return nil
		})
	}
	return g.Wait()
}

var errUnknownDump = errors.New("unknown dump")

func dumpFunc(r *softgpu.Renderer, st *gstate.State, dump string) (func() (image.Image, error), error) {
	switch dump {
	case "color":
		return func() (image.Image, error) { return r.FramebufferImage(st) }, nil
	case "depth":
		return func() (image.Image, error) { return r.DepthImage(st), nil }, nil
	case "stencil":
		return func() (image.Image, error) { return r.StencilImage(st), nil }, nil
	case "texture":
		return func() (image.Image, error) {
			if !st.TextureEnable && st.Memory != nil {
				// The last draw may have turned texturing off.
				tex := st.Clone()
				tex.TextureEnable = true
				return r.TextureImage(tex, 0)
			}
			return r.TextureImage(st, 0)
		}, nil
	default:
		return nil, fmt.Errorf("%w %q", errUnknownDump, dump)
	}
}
