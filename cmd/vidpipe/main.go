// Command vidpipe transcodes a framed media stream: decode, scale with an
// optional 3D-LUT, re-encode. It can also generate a synthetic source stream
// for testing with -gen.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/vidpipe"
	"github.com/gogpu/vidpipe/backend/software"
	"github.com/gogpu/vidpipe/lut"
	"github.com/gogpu/vidpipe/media"
	"github.com/gogpu/vidpipe/surface"

	_ "github.com/gogpu/vidpipe/backend/hw"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file")
		input      = flag.String("i", "", "input stream file")
		output     = flag.String("o", "", "output stream file (empty = discard)")
		backend    = flag.String("backend", "", "engine backend (empty = best available)")
		width      = flag.Int("width", 0, "target frame width")
		height     = flag.Int("height", 0, "target frame height")
		depth      = flag.Int("asyncdepth", 0, "in-flight operation bound")
		lutPath    = flag.String("lut", "", "3D-LUT file (.cube or binary)")
		gen        = flag.Int("gen", 0, "generate a synthetic input stream with N frames and exit")
		list       = flag.Bool("list", false, "list available backends and exit")
		verbose    = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	if *verbose {
		vidpipe.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	if *list {
		for _, name := range vidpipe.AvailableBackends() {
			fmt.Println(name)
		}
		return
	}

	cfg := &Config{}
	if *configPath != "" {
		loaded, err := LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Config: %v", err)
		}
		cfg = loaded
	}
	overrideString(&cfg.Input, *input)
	overrideString(&cfg.Output, *output)
	overrideString(&cfg.Backend, *backend)
	overrideString(&cfg.LUT, *lutPath)
	overrideInt(&cfg.Width, *width)
	overrideInt(&cfg.Height, *height)
	overrideInt(&cfg.AsyncDepth, *depth)
	cfg.setDefaults()

	if *gen > 0 {
		if err := generate(cfg, *gen); err != nil {
			log.Fatalf("Generate: %v", err)
		}
		return
	}

	if err := cfg.validate(); err != nil {
		log.Fatalf("Config: %v", err)
	}
	if err := transcode(cfg); err != nil {
		log.Fatalf("Transcode: %v", err)
	}
}

// overrideString applies a flag value over the config when set.
func overrideString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// overrideInt applies a flag value over the config when set.
func overrideInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

// generate writes a synthetic source stream of n frames to the output path.
func generate(cfg *Config, n int) error {
	if cfg.Output == "" {
		return fmt.Errorf("-o is required with -gen")
	}
	info := surface.Info{FourCC: surface.FourCCRGBA, Width: cfg.Width, Height: cfg.Height}

	f, err := os.Create(cfg.Output)
	if err != nil {
		return err
	}
	defer f.Close()
	bw := bufio.NewWriter(f)

	sw, err := software.NewStreamWriter(bw, info)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := sw.WriteFrame(software.SyntheticFrame(info, i)); err != nil {
			return err
		}
	}
	if err := sw.Close(); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	log.Printf("Generated %d frames (%dx%d) to %s\n", n, info.Width, info.Height, cfg.Output)
	return nil
}

// transcode runs one full pipeline pass and reports throughput.
func transcode(cfg *Config) error {
	ecfg := vidpipe.EngineConfig{
		Target:      surface.Info{FourCC: surface.FourCCRGBA, Width: cfg.Width, Height: cfg.Height},
		BitrateKbps: cfg.BitrateKbps,
		FrameRateN:  cfg.FrameRateN,
		FrameRateD:  cfg.FrameRateD,
		AsyncDepth:  cfg.AsyncDepth,
	}
	if cfg.LUT != "" {
		table, err := lut.LoadFile(cfg.LUT)
		if err != nil {
			return err
		}
		ecfg.LUT = table
	}

	var eng *vidpipe.Engines
	var err error
	if cfg.Backend != "" {
		eng, err = vidpipe.NewEnginesByName(cfg.Backend, ecfg)
	} else {
		eng, err = vidpipe.NewEngines(ecfg)
	}
	if err != nil {
		return err
	}
	defer eng.Close()

	in, err := os.Open(cfg.Input)
	if err != nil {
		return err
	}
	defer in.Close()

	sink := media.Discard
	var flush func() error
	if cfg.Output != "" {
		out, err := os.Create(cfg.Output)
		if err != nil {
			return err
		}
		defer out.Close()
		bw := bufio.NewWriter(out)
		sink = media.NewWriter(bw)
		flush = bw.Flush
	}

	p, err := vidpipe.New(eng, vidpipe.WithAsyncDepth(cfg.AsyncDepth))
	if err != nil {
		return err
	}

	start := time.Now()
	frames, err := p.Run(media.NewReader(bufio.NewReader(in)), sink)
	if err != nil {
		return fmt.Errorf("after %d frames: %w", frames, err)
	}
	elapsed := time.Since(start)
	if flush != nil {
		if err := flush(); err != nil {
			return err
		}
	}

	fps := float64(frames) / elapsed.Seconds()
	log.Printf("Transcoded %d frames in %v (%.1f fps)\n", frames, elapsed.Round(time.Millisecond), fps)
	return nil
}
