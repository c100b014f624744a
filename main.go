package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"randgen/internal/config"
	"randgen/internal/generator"
	"randgen/internal/keystore"
	"randgen/internal/noise"
)

const usage = `Generate random artefacts from random.org (or a local PRNG with -d).

Usage:
  randgen rsa    [flags]   toy RSA key pair, written to <dir>/<name>.pub and .priv
  randgen bitmap [flags]   random 128x128 RGB bitmap, written to <dir>/<name>.png
  randgen noise  [flags]   random 3 second WAV file, written to <dir>/<name>.wav

Run 'randgen <command> -h' for the flags of a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1], os.Args[2:])
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "randgen:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, args []string) error {
	switch command {
	case "rsa", "bitmap", "noise":
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n\n%s", command, usage)
	}

	cfg, err := parseConfig(command, args)
	if err != nil {
		return err
	}
	setupLogger(cfg.Verbose)

	switch command {
	case "rsa":
		return generateKeys(ctx, cfg)
	case "bitmap":
		return generateBitmap(ctx, cfg)
	default:
		return generateNoise(ctx, cfg)
	}
}

// parseConfig loads the config file and lets explicitly set flags override it.
func parseConfig(command string, args []string) (*config.Config, error) {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	configPath := fs.String("c", "", "Path to a YAML config file")
	debug := fs.Bool("d", false, "Use a local pseudo-random source instead of random.org")
	verbose := fs.Bool("v", false, "Verbose output")
	name := fs.String("o", "tmp", "Name of output file, e.g. foo to generate foo.pub and foo.priv")
	dir := fs.String("dir", "output", "Output directory")
	bits := fs.Int("bits", 8, "Bit width bounding the primes (rsa only)")
	count := fs.Int("n", 1, "Number of key pairs to generate (rsa only)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "d":
			cfg.Debug = *debug
		case "v":
			cfg.Verbose = *verbose
		case "o":
			cfg.Name = *name
		case "dir":
			cfg.OutputDir = *dir
		case "bits":
			cfg.Bits = *bits
		case "n":
			cfg.Count = *count
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func generateKeys(ctx context.Context, cfg *config.Config) error {
	gen, err := generator.New(cfg.Source(), cfg.Bits, generator.WithMaxRerolls(cfg.MaxRerolls))
	if err != nil {
		return err
	}

	slog.DebugContext(ctx, "generating key pairs", "count", cfg.Count, "bits", cfg.Bits, "debug", cfg.Debug)

	var records []*generator.KeyRecord
	if cfg.Count == 1 {
		rec, err := gen.Generate(ctx)
		if err != nil {
			return err
		}
		records = append(records, rec)
	} else {
		records, err = gen.GenerateMany(ctx, cfg.Count)
		if err != nil {
			return err
		}
	}

	store := keystore.New(cfg.OutputDir)
	for i, rec := range records {
		name := cfg.Name
		if len(records) > 1 {
			name = fmt.Sprintf("%s-%d", cfg.Name, i)
		}
		pubPath, privPath, err := store.Save(name, rec.Pair)
		if err != nil {
			return err
		}
		slog.InfoContext(ctx, "saved key pair", "run", rec.ID, "public", pubPath, "private", privPath)
	}

	slog.DebugContext(ctx, "done")
	return nil
}

func createOutput(cfg *config.Config, ext string) (*os.File, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, err
	}
	return os.Create(filepath.Join(cfg.OutputDir, cfg.Name+ext))
}

func generateBitmap(ctx context.Context, cfg *config.Config) error {
	f, err := createOutput(cfg, ".png")
	if err != nil {
		return err
	}
	defer f.Close()

	if err := noise.Bitmap(ctx, cfg.Source(), f); err != nil {
		return err
	}
	slog.InfoContext(ctx, "saved bitmap", "path", f.Name())
	return f.Close()
}

func generateNoise(ctx context.Context, cfg *config.Config) error {
	f, err := createOutput(cfg, ".wav")
	if err != nil {
		return err
	}
	defer f.Close()

	if err := noise.WhiteNoise(ctx, cfg.Source(), f); err != nil {
		return err
	}
	slog.InfoContext(ctx, "saved white noise", "path", f.Name())
	return f.Close()
}
