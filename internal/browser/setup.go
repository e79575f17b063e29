// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package browser

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/playwright-community/playwright-go"

	"github.com/pdiddy/disclosure-fetch/pkg/types"
)

// chromeBinaries lists executable names tried on PATH, most specific first.
var chromeBinaries = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"chrome",
	"headless-shell",
}

// installer abstracts the host interactions of browser setup for testing.
type installer interface {
	LookPath(file string) (string, error)
	Stat(path string) error
	InstallPlaywright() error
}

// osInstaller is the production installer backed by os/exec and the
// playwright driver.
type osInstaller struct{}

func (o *osInstaller) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osInstaller) Stat(path string) error {
	_, err := os.Stat(path)
	return err
}

func (o *osInstaller) InstallPlaywright() error {
	return playwright.Install(&playwright.RunOptions{
		Browsers: []string{"chromium"},
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	})
}

var defaultInstaller = &osInstaller{}

// EnsureBrowser makes a best effort to have a browser ready for the
// configured engine. Failures are printed to w as warnings and never stop
// the caller; a missing browser shows up later as a launch error instead.
// It reports whether setup succeeded.
func EnsureBrowser(cfg types.BrowserConfig, w io.Writer) bool {
	return ensureBrowser(defaultInstaller, cfg, w)
}

func ensureBrowser(inst installer, cfg types.BrowserConfig, w io.Writer) bool {
	var err error
	switch cfg.Engine {
	case types.EnginePlaywright:
		err = installPlaywright(inst, cfg)
	default:
		_, err = locateChrome(inst, cfg)
	}
	if err != nil {
		fmt.Fprintf(w, "warning: %v\n", err)
		return false
	}
	return true
}

func installPlaywright(inst installer, cfg types.BrowserConfig) error {
	if cfg.BrowserPath != "" {
		if err := inst.Stat(cfg.BrowserPath); err != nil {
			return fmt.Errorf("configured browser %s not usable: %w", cfg.BrowserPath, err)
		}
		return nil
	}
	if err := inst.InstallPlaywright(); err != nil {
		return fmt.Errorf("failed to auto-install playwright chromium, run 'playwright install chromium': %w", err)
	}
	return nil
}

// locateChrome returns the Chrome executable chromedp will start: the
// configured path when set, otherwise the first well-known binary on PATH.
func locateChrome(inst installer, cfg types.BrowserConfig) (string, error) {
	if cfg.BrowserPath != "" {
		if err := inst.Stat(cfg.BrowserPath); err != nil {
			return "", fmt.Errorf("configured browser %s not usable: %w", cfg.BrowserPath, err)
		}
		return cfg.BrowserPath, nil
	}
	for _, name := range chromeBinaries {
		if path, err := inst.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no chrome or chromium found on PATH (tried %v); install one or set browser.path", chromeBinaries)
}
