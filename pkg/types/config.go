// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds settings for the PDF download client.
type HTTPConfig struct {
	// Timeout bounds each download request. Zero means no timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent overrides the User-Agent header sent with downloads.
	// Empty (the default) leaves the client's own header untouched.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// BrowserEngine selects the browser automation backend.
type BrowserEngine string

const (
	EngineChromedp   BrowserEngine = "chromedp"
	EnginePlaywright BrowserEngine = "playwright"
)

// BrowserConfig holds settings for the headless browser session.
type BrowserConfig struct {
	// Engine selects chromedp or playwright.
	Engine BrowserEngine `json:"engine" yaml:"engine"`

	// BrowserPath is the Chrome or Chromium executable to launch. It replaces
	// the environment redirect a bundled build would otherwise need. Empty lets
	// the engine locate its own browser.
	BrowserPath string `json:"path,omitempty" yaml:"path,omitempty"`

	// Headless runs the browser without a window (default true).
	Headless bool `json:"headless" yaml:"headless"`

	// NavigationTimeout bounds the initial page load (default 30s).
	NavigationTimeout time.Duration `json:"navigation_timeout" yaml:"navigation_timeout"`

	// FormTimeout bounds each wait for a search form control (default 10s).
	FormTimeout time.Duration `json:"form_timeout" yaml:"form_timeout"`

	// ResultsTimeout bounds the wait for the results table (default 20s).
	ResultsTimeout time.Duration `json:"results_timeout" yaml:"results_timeout"`
}

// FetchConfig groups everything one fetch iteration needs.
type FetchConfig struct {
	// BaseURL is the disclosure portal root; hrefs resolve against it.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// OutputDir is the directory holding the pdfs_<year> folders (default ".").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	Browser BrowserConfig `json:"browser" yaml:"browser"`

	HTTP HTTPConfig `json:"http" yaml:"http"`
}

// Default values for FetchConfig.
const (
	DefaultBaseURL           = "https://disclosures-clerk.house.gov/"
	DefaultOutputDir         = "."
	DefaultHTTPTimeout       = 60 * time.Second
	DefaultNavigationTimeout = 30 * time.Second
	DefaultFormTimeout       = 10 * time.Second
	DefaultResultsTimeout    = 20 * time.Second
)

// DefaultFetchConfig returns the configuration used when nothing is overridden.
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		BaseURL:   DefaultBaseURL,
		OutputDir: DefaultOutputDir,
		Browser: BrowserConfig{
			Engine:            EngineChromedp,
			Headless:          true,
			NavigationTimeout: DefaultNavigationTimeout,
			FormTimeout:       DefaultFormTimeout,
			ResultsTimeout:    DefaultResultsTimeout,
		},
		HTTP: HTTPConfig{
			Timeout: DefaultHTTPTimeout,
		},
	}
}
