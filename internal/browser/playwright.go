// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/pdiddy/disclosure-fetch/pkg/types"
)

type playwrightLauncher struct {
	cfg types.BrowserConfig
}

// Launch starts the playwright driver, a Chromium browser, and one page.
func (l *playwrightLauncher) Launch(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pw, err := playwright.Run(&playwright.RunOptions{SkipInstallBrowsers: true})
	if err != nil {
		return nil, fmt.Errorf("starting playwright driver: %w", err)
	}

	opts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(l.cfg.Headless),
	}
	if l.cfg.BrowserPath != "" {
		opts.ExecutablePath = playwright.String(l.cfg.BrowserPath)
	}
	b, err := pw.Chromium.Launch(opts)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launching chromium: %w", err)
	}
	page, err := b.NewPage()
	if err != nil {
		b.Close()
		pw.Stop()
		return nil, fmt.Errorf("creating page: %w", err)
	}
	return &playwrightSession{pw: pw, browser: b, page: page}, nil
}

type playwrightSession struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
}

// wrap maps playwright timeouts onto ErrTimeout. Playwright calls are not
// context aware, so ctx is only checked between steps.
func wrap(ctx context.Context, what string, timeout time.Duration, err error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return timeoutError(what, timeout)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func millis(d time.Duration) *float64 {
	if d <= 0 {
		return nil
	}
	return playwright.Float(float64(d.Milliseconds()))
}

func (s *playwrightSession) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.page.Goto(url, playwright.PageGotoOptions{Timeout: millis(timeout)})
	return wrap(ctx, url, timeout, err)
}

func (s *playwrightSession) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: millis(timeout),
	})
	return wrap(ctx, selector, timeout, err)
}

func (s *playwrightSession) Click(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return wrap(ctx, "click "+selector, 0, s.page.Click(selector))
}

func (s *playwrightSession) FillField(ctx context.Context, selector, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return wrap(ctx, "fill "+selector, 0, s.page.Fill(selector, value))
}

func (s *playwrightSession) SelectOption(ctx context.Context, selector, label string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.page.SelectOption(selector, playwright.SelectOptionValues{
		Labels: &[]string{label},
	})
	return wrap(ctx, "select "+selector, 0, err)
}

func (s *playwrightSession) QueryLinks(ctx context.Context, selector string) ([]types.DisclosureLink, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	html, err := s.page.Content()
	if err != nil {
		return nil, wrap(ctx, "read document", 0, err)
	}
	return ParseLinks(html, selector)
}

func (s *playwrightSession) Close() error {
	return errors.Join(s.browser.Close(), s.pw.Stop())
}
