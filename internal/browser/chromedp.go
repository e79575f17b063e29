// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package browser

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/pdiddy/disclosure-fetch/pkg/types"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

type chromedpLauncher struct {
	cfg types.BrowserConfig
}

// Launch starts a fresh Chrome process and opens one tab in it.
func (l *chromedpLauncher) Launch(ctx context.Context) (Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", l.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.UserAgent(userAgent),
	)
	if l.cfg.BrowserPath != "" {
		opts = append(opts, chromedp.ExecPath(l.cfg.BrowserPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// An empty Run forces the browser to start so launch failures surface here.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("starting chrome: %w", err)
	}
	return &chromedpSession{ctx: tabCtx, cancelTab: cancelTab, cancelAlloc: cancelAlloc}, nil
}

type chromedpSession struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
}

// run executes actions in the tab, bounded by timeout (when positive) and by
// the caller's ctx.
func (s *chromedpSession) run(ctx context.Context, what string, timeout time.Duration, actions ...chromedp.Action) error {
	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(s.ctx, timeout)
	} else {
		runCtx, cancel = context.WithCancel(s.ctx)
	}
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return timeoutError(what, timeout)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func queryBy(selector string) chromedp.QueryOption {
	if isXPath(selector) {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

func (s *chromedpSession) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	return s.run(ctx, url, timeout, chromedp.Navigate(url))
}

func (s *chromedpSession) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	return s.run(ctx, selector, timeout, chromedp.WaitVisible(selector, queryBy(selector)))
}

func (s *chromedpSession) Click(ctx context.Context, selector string) error {
	return s.run(ctx, "click "+selector, 0, chromedp.Click(selector, queryBy(selector), chromedp.NodeVisible))
}

func (s *chromedpSession) FillField(ctx context.Context, selector, value string) error {
	by := queryBy(selector)
	return s.run(ctx, "fill "+selector, 0,
		chromedp.Clear(selector, by),
		chromedp.SendKeys(selector, value, by),
	)
}

// SelectOption sets the select's value from the option whose label matches
// and fires the input and change events a user selection would.
func (s *chromedpSession) SelectOption(ctx context.Context, selector, label string) error {
	js := fmt.Sprintf(`(() => {
	  const el = document.querySelector(%s);
	  if (!el) return 'missing';
	  const want = %s;
	  const opt = Array.from(el.options).find(o => o.label.trim() === want || o.text.trim() === want);
	  if (!opt) return 'no-option';
	  el.value = opt.value;
	  el.dispatchEvent(new Event('input', {bubbles: true}));
	  el.dispatchEvent(new Event('change', {bubbles: true}));
	  return 'ok';
	})()`, strconv.Quote(selector), strconv.Quote(label))

	var res string
	if err := s.run(ctx, "select "+selector, 0, chromedp.Evaluate(js, &res)); err != nil {
		return err
	}
	switch res {
	case "ok":
		return nil
	case "missing":
		return fmt.Errorf("select %s: element not found", selector)
	default:
		return fmt.Errorf("select %s: no option labelled %q", selector, label)
	}
}

func (s *chromedpSession) QueryLinks(ctx context.Context, selector string) ([]types.DisclosureLink, error) {
	var html string
	if err := s.run(ctx, "read document", 0, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, err
	}
	return ParseLinks(html, selector)
}

// Close closes the tab gracefully, then kills the browser process.
func (s *chromedpSession) Close() error {
	err := chromedp.Cancel(s.ctx)
	s.cancelTab()
	s.cancelAlloc()
	return err
}
