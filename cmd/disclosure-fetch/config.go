// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/disclosure-fetch/pkg/types"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Config prints the configuration disclosure-fetch would run with, after
merging defaults, the config file, and DISCLOSURE_FETCH_* environment
variables. The output is a valid config file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := renderConfig(fetchConfig(viper.GetViper()))
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// configFile mirrors the config file layout. Durations are rendered as
// strings ("30s") so the output reads back through viper.
type configFile struct {
	BaseURL   string `yaml:"base_url"`
	OutputDir string `yaml:"output_dir"`
	Browser   struct {
		Engine            string `yaml:"engine"`
		Path              string `yaml:"path,omitempty"`
		Headless          bool   `yaml:"headless"`
		NavigationTimeout string `yaml:"navigation_timeout"`
		FormTimeout       string `yaml:"form_timeout"`
		ResultsTimeout    string `yaml:"results_timeout"`
	} `yaml:"browser"`
	HTTP struct {
		Timeout   string `yaml:"timeout"`
		UserAgent string `yaml:"user_agent"`
	} `yaml:"http"`
}

func renderConfig(cfg types.FetchConfig) ([]byte, error) {
	var f configFile
	f.BaseURL = cfg.BaseURL
	f.OutputDir = cfg.OutputDir
	f.Browser.Engine = string(cfg.Browser.Engine)
	f.Browser.Path = cfg.Browser.BrowserPath
	f.Browser.Headless = cfg.Browser.Headless
	f.Browser.NavigationTimeout = cfg.Browser.NavigationTimeout.String()
	f.Browser.FormTimeout = cfg.Browser.FormTimeout.String()
	f.Browser.ResultsTimeout = cfg.Browser.ResultsTimeout.String()
	f.HTTP.Timeout = cfg.HTTP.Timeout.String()
	f.HTTP.UserAgent = cfg.HTTP.UserAgent

	data, err := yaml.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}
