// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the cbr2pdf CLI, which turns one comic
// book archive into a PDF next to it.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/shelftools/internal/comic"
	"github.com/pdiddy/shelftools/internal/extract"
	"github.com/pdiddy/shelftools/internal/output"
	"github.com/pdiddy/shelftools/internal/pdf"
	"github.com/pdiddy/shelftools/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var envKeyReplacer = strings.NewReplacer("-", "_")

var rootCmd = &cobra.Command{
	Use:   "cbr2pdf <archive>",
	Short: "Convert a comic book archive to PDF",
	Long: `cbr2pdf extracts every page of a comic book archive into a scratch
directory, sorts the pages by file name, and assembles them into
<archive minus extension>.pdf. Each page is fitted to the page size.
Landscape images stay upright on the same sheet turned to landscape. An
existing PDF is overwritten.

Extraction uses the first of unrar, 7z, or bsdtar found on PATH.`,
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	RunE:          runConvert,
}

func init() {
	cobra.OnInitialize(initConfig)

	f := rootCmd.Flags()
	f.String("assembler", string(types.AssemblerPdfcpu), "PDF backend: pdfcpu or img2pdf")
	f.String("page-size", pdf.DefaultPageSize, "paper format every page is fitted to (A4, Letter, ...)")
	f.String("extractor", "", "extraction tool: unrar, 7z, or bsdtar (default: first found)")
	f.BoolP("verbose", "v", false, "log diagnostics to stderr")
	f.BoolP("quiet", "q", false, "print failures only")
	f.String("color", "auto", "color output: auto, always, never")

	for _, name := range []string{"assembler", "page-size", "extractor"} {
		_ = viper.BindPFlag(name, f.Lookup(name))
	}
}

func initConfig() {
	viper.SetEnvPrefix("CBR2PDF")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()
}

func convertConfig() types.ConvertConfig {
	return types.ConvertConfig{
		Assembler: types.AssemblerBackend(viper.GetString("assembler")),
		PageSize:  viper.GetString("page-size"),
		Extractor: viper.GetString("extractor"),
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	// Usage is only useful for argument errors.
	cmd.SilenceUsage = true

	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")
	colorFlag, _ := cmd.Flags().GetString("color")

	mode, err := output.ParseColorMode(colorFlag)
	if err != nil {
		return err
	}
	printer := output.NewPrinter(os.Stdout, os.Stderr, output.ResolveColors(mode), quiet)

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := convertConfig()

	var ex *extract.ToolExtractor
	if cfg.Extractor != "" {
		ex, err = extract.ForTool(cfg.Extractor)
	} else {
		ex, err = extract.Detect()
	}
	if err != nil {
		return err
	}

	asm, err := pdf.New(cfg.Assembler, cfg.PageSize)
	if err != nil {
		return err
	}

	conv := &comic.Converter{Extractor: ex, Assembler: asm, Printer: printer}
	_, err = conv.Convert(cmd.Context(), args[0])
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cbr2pdf:", err)
		os.Exit(1)
	}
}
