package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/ocr-kawaii/internal/imaging"
	"github.com/ironsheep/ocr-kawaii/internal/ocr"
	"github.com/ironsheep/ocr-kawaii/internal/server"
	"github.com/ironsheep/ocr-kawaii/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web interface",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		addr := a.cfg.Addr
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}

		info := ocr.Inspect(cmd.Context(), a.engine)
		if !info.Available {
			a.log.WithField("error", info.Error).Warn(info.Hint)
		}

		h := web.New(a.pipeline, a.cfg.PipelineOptions(), a.cfg.MaxUploadBytes(), a.log, Version)
		return web.ListenAndServe(cmd.Context(), addr, h.Routes(), a.log)
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server on stdin/stdout",
	Long: `Run the MCP server on stdin/stdout.

This server communicates via MCP protocol over stdin/stdout; logs go to
stderr. Configure it in your MCP client.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		srv := server.New(a.pipeline, a.cfg.PipelineOptions(), a.log, Version)
		return srv.Run(cmd.Context())
	},
}

type runFlags struct {
	out          string
	overlay      bool
	noInvert     bool
	grayscale    bool
	autocontrast bool
	blur         bool
	threshold    bool
	print        bool
}

var runOpts runFlags

var runCmd = &cobra.Command{
	Use:   "run IMAGE",
	Short: "Process one image and write the transcript file",
	Long: `Process one image and write ocr_YYYYMMDD_HHMMSS.txt into --out.

With --overlay the detected words are also drawn into a PNG next to it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}

		data, err := imaging.LoadFile(args[0])
		if err != nil {
			return err
		}

		opts := a.cfg.PipelineOptions()
		opts.Invert = !runOpts.noInvert
		opts.Grayscale = runOpts.grayscale
		opts.Autocontrast = runOpts.autocontrast
		opts.Blur = runOpts.blur
		opts.Threshold = runOpts.threshold

		res, err := a.pipeline.Process(cmd.Context(), data, opts)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(runOpts.out, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		txtPath := filepath.Join(runOpts.out, res.Download.Filename)
		if err := os.WriteFile(txtPath, res.Download.Content, 0o644); err != nil {
			return fmt.Errorf("failed to save transcript: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), txtPath)

		if runOpts.overlay {
			pngPath := strings.TrimSuffix(txtPath, ".txt") + "_overlay.png"
			if err := imaging.SavePNG(res.Overlay, pngPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pngPath)
		}

		if runOpts.print {
			fmt.Fprint(cmd.OutOrStdout(), res.Transcript)
		}

		if res.Notice != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), res.Notice.Message)
			fmt.Fprintf(cmd.ErrOrStderr(), "Technical detail: %s\n", res.Notice.Detail)
			return fmt.Errorf("ocr failed: %s", res.Notice.Kind)
		}
		return nil
	},
}

var engineCmd = &cobra.Command{
	Use:   "engine",
	Short: "Show OCR engine availability, version and languages",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		info := ocr.Inspect(cmd.Context(), a.engine)

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(info); err != nil {
			return err
		}
		if !info.Available {
			return fmt.Errorf("engine %s unavailable", info.Backend)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from OCR_KAWAII_ADDR or :8501)")

	f := runCmd.Flags()
	f.StringVarP(&runOpts.out, "out", "o", ".", "Directory for the transcript file")
	f.BoolVar(&runOpts.overlay, "overlay", false, "Also write the overlay PNG")
	f.BoolVar(&runOpts.noInvert, "no-invert", false, "Skip the colour inversion (Sin Filtro)")
	f.BoolVar(&runOpts.grayscale, "grayscale", false, "Convert to grayscale")
	f.BoolVar(&runOpts.autocontrast, "autocontrast", false, "Stretch contrast")
	f.BoolVar(&runOpts.blur, "blur", false, "Apply a 3x3 median filter")
	f.BoolVar(&runOpts.threshold, "threshold", false, "Binarize at 0.9 x mean intensity")
	f.BoolVar(&runOpts.print, "print", false, "Also print the transcript to stdout")

	rootCmd.AddCommand(serveCmd, mcpCmd, runCmd, engineCmd)
}
