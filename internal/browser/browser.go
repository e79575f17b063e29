// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package browser drives a headless browser through a narrow capability
// interface. Two engines implement it: chromedp (default) and playwright.
//
// Selectors are CSS unless they begin with "/", in which case they are XPath.
// SelectOption and QueryLinks accept CSS only.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/disclosure-fetch/pkg/types"
)

// ErrTimeout reports that a bounded wait expired before its condition held.
var ErrTimeout = errors.New("browser: timed out")

// Session is one isolated browser page. A Session is not shared across
// fetches; Close releases the page and the browser process behind it.
type Session interface {
	// Navigate loads url and waits at most timeout for it to respond.
	Navigate(ctx context.Context, url string, timeout time.Duration) error

	// WaitFor blocks until selector matches a visible element or timeout expires.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error

	// Click clicks the first element matching selector.
	Click(ctx context.Context, selector string) error

	// FillField replaces the value of the input matching selector.
	FillField(ctx context.Context, selector, value string) error

	// SelectOption picks the option whose visible label equals label.
	SelectOption(ctx context.Context, selector, label string) error

	// QueryLinks returns href and visible text of every anchor matching
	// selector, in document order.
	QueryLinks(ctx context.Context, selector string) ([]types.DisclosureLink, error)

	// Close shuts the session down. It is safe to call once per session.
	Close() error
}

// Launcher starts new sessions.
type Launcher interface {
	Launch(ctx context.Context) (Session, error)
}

// NewLauncher returns the launcher for the configured engine.
func NewLauncher(cfg types.BrowserConfig) (Launcher, error) {
	switch cfg.Engine {
	case types.EngineChromedp, "":
		return &chromedpLauncher{cfg: cfg}, nil
	case types.EnginePlaywright:
		return &playwrightLauncher{cfg: cfg}, nil
	default:
		return nil, fmt.Errorf("unknown browser engine: %q", cfg.Engine)
	}
}

func isXPath(selector string) bool {
	return strings.HasPrefix(selector, "/")
}

func timeoutError(what string, timeout time.Duration) error {
	return fmt.Errorf("%w after %s waiting for %s", ErrTimeout, timeout, what)
}
