// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the podfetch CLI. Running podfetch
// with no subcommand downloads new enclosures from every feed in the feed
// list and records them in the playlist.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/shelftools/internal/output"
)

// version is set at build time via ldflags.
var version = "dev"

var printer *output.Printer

// configUsed is the config file that was read, if any.
var configUsed string

// rootCmd runs the feed processor.
var rootCmd = &cobra.Command{
	Use:   "podfetch",
	Short: "Download new podcast episodes from a list of feeds",
	Long: `podfetch reads a list of RSS/Atom feed URLs, takes the newest enclosures
from each feed, and downloads the ones not yet in the playlist. Every
download is prepended to the playlist, so its first line is always the most
recent episode.

The first failure stops the run. Episodes downloaded before it stay recorded.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runFetch,
}

func init() {
	// Assigned here rather than in the literal: setupOutput reads rootCmd's
	// flags, which would otherwise form an initialization cycle.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return setupOutput()
	}
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./podfetch.yaml or ~/.config/podfetch/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log diagnostics to stderr")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "print failures only")
	rootCmd.PersistentFlags().String("color", "auto", "color output: auto, always, never")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile == "" {
		cfgFile = defaultConfigFile()
	}
	viper.SetConfigFile(cfgFile)
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("PODFETCH")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		configUsed = viper.ConfigFileUsed()
	}
}

// setupOutput builds the status printer and the diagnostic logger from the
// persistent flags.
func setupOutput() error {
	verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
	quiet, _ := rootCmd.PersistentFlags().GetBool("quiet")
	colorFlag, _ := rootCmd.PersistentFlags().GetString("color")

	mode, err := output.ParseColorMode(colorFlag)
	if err != nil {
		return err
	}
	printer = output.NewPrinter(os.Stdout, os.Stderr, output.ResolveColors(mode), quiet)

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	if configUsed != "" {
		slog.Debug("using config file", "path", configUsed)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "podfetch:", err)
		os.Exit(1)
	}
}
