// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the disclosure-fetch CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/disclosure-fetch/pkg/types"
)

const appName = "disclosure-fetch"

// version is set at build time via ldflags.
var version = "dev"

// rootCmd runs the interactive search-and-download loop.
var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Download House financial disclosure PDFs by filing year and last name",
	Long: `disclosure-fetch searches the House Clerk financial disclosure portal with a
headless browser and downloads every PDF report in the results into
pdfs_<year>/.

It asks for a filing year and a last name, downloads the matching reports,
then asks whether to search again.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		setupLogging(verbose)
	},
	RunE: runInteractive,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./disclosure-fetch.yaml or $XDG_CONFIG_HOME/disclosure-fetch/disclosure-fetch.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}

func initConfig() {
	setDefaults(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(appName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath(filepath.Join(xdg.ConfigHome, appName))
	}

	viper.SetEnvPrefix("DISCLOSURE_FETCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every configuration key so environment overrides
// resolve even without a config file.
func setDefaults(v *viper.Viper) {
	d := types.DefaultFetchConfig()
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("browser.engine", string(d.Browser.Engine))
	v.SetDefault("browser.path", d.Browser.BrowserPath)
	v.SetDefault("browser.headless", d.Browser.Headless)
	v.SetDefault("browser.navigation_timeout", d.Browser.NavigationTimeout)
	v.SetDefault("browser.form_timeout", d.Browser.FormTimeout)
	v.SetDefault("browser.results_timeout", d.Browser.ResultsTimeout)
	v.SetDefault("http.timeout", d.HTTP.Timeout)
	v.SetDefault("http.user_agent", d.HTTP.UserAgent)
}

// fetchConfig reads the effective configuration from v.
func fetchConfig(v *viper.Viper) types.FetchConfig {
	return types.FetchConfig{
		BaseURL:   v.GetString("base_url"),
		OutputDir: v.GetString("output_dir"),
		Browser: types.BrowserConfig{
			Engine:            types.BrowserEngine(v.GetString("browser.engine")),
			BrowserPath:       v.GetString("browser.path"),
			Headless:          v.GetBool("browser.headless"),
			NavigationTimeout: v.GetDuration("browser.navigation_timeout"),
			FormTimeout:       v.GetDuration("browser.form_timeout"),
			ResultsTimeout:    v.GetDuration("browser.results_timeout"),
		},
		HTTP: types.HTTPConfig{
			Timeout:   v.GetDuration("http.timeout"),
			UserAgent: v.GetString("http.user_agent"),
		},
	}
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
