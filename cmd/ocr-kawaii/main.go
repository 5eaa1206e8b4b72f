package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ironsheep/ocr-kawaii/internal/config"
	"github.com/ironsheep/ocr-kawaii/internal/logging"
	"github.com/ironsheep/ocr-kawaii/internal/ocr"
	"github.com/ironsheep/ocr-kawaii/internal/pipeline"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "ocr-kawaii",
	Short: "Turn photos into text with Tesseract",
	Long: `ocr-kawaii reads text out of photos and scans.

It serves a small web page (serve), an MCP server over stdio (mcp) and a
one-shot command line mode (run). Settings come from the environment or a
.env file; flags override them.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Read settings from this env file instead of ./.env")
	addConfigFlags(rootCmd)

	rootCmd.AddCommand(versionCmd)
}

// addConfigFlags registers the flags that override configuration.
func addConfigFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.String("log-level", "", "Log level (debug, info, warn, error)")
	pf.String("engine", "", "OCR backend: cli or gosseract")
	pf.String("tesseract", "", "Path to the tesseract binary")
	pf.Duration("timeout", 0, "OCR timeout per image")
	pf.String("lang", "", "Language code or menu label (auto, spa, eng, por, fra, spa+eng)")
	pf.String("psm", "", "Page segmentation mode: 3, 6, 7 or 11")
	pf.Int("min-confidence", 0, "Keep words with confidence above this value")
	pf.String("accent", "", "Overlay box colour as #RRGGBB")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ocr-kawaii %s\n", Version)
		fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
		fmt.Fprintf(out, "  gosseract backend: %t\n", ocr.GosseractAvailable)
	},
}

// app is what every command needs after configuration.
type app struct {
	cfg      *config.Config
	log      *logrus.Logger
	engine   ocr.Engine
	pipeline *pipeline.Pipeline
}

// setup loads configuration, applies flag overrides and builds the engine
// and pipeline.
func setup(cmd *cobra.Command) (*app, error) {
	var (
		cfg *config.Config
		err error
	)
	if envFile != "" {
		cfg, err = config.LoadFile(envFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if err := applyOverrides(cmd, cfg); err != nil {
		return nil, err
	}

	log := logging.NewStderr(cfg.LogLevel)

	engine, err := ocr.New(cfg.EngineSettings())
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"version": Version,
		"engine":  engine.Name(),
	}).Debug("ocr-kawaii starting")

	return &app{
		cfg:      cfg,
		log:      log,
		engine:   engine,
		pipeline: pipeline.New(engine, log),
	}, nil
}

// applyOverrides copies explicitly set flags onto cfg and revalidates it.
func applyOverrides(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("engine") {
		engine, _ := flags.GetString("engine")
		cfg.Engine = strings.ToLower(engine)
	}
	if flags.Changed("tesseract") {
		cfg.TesseractPath, _ = flags.GetString("tesseract")
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("lang") {
		cfg.Language, _ = flags.GetString("lang")
	}
	if flags.Changed("psm") {
		raw, _ := flags.GetString("psm")
		psm, err := ocr.ParsePSM(raw)
		if err != nil {
			return fmt.Errorf("--psm: %w", err)
		}
		cfg.PSM = psm
	}
	if flags.Changed("min-confidence") {
		cfg.MinConfidence, _ = flags.GetInt("min-confidence")
	}
	if flags.Changed("accent") {
		cfg.Accent, _ = flags.GetString("accent")
	}
	return cfg.Validate()
}
