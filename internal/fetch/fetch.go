// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch searches the disclosure portal for one filer and downloads
// every PDF report the results table links to.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pdiddy/disclosure-fetch/internal/browser"
	"github.com/pdiddy/disclosure-fetch/pkg/types"
)

// Portal locations and selectors.
const (
	searchPath = "FinancialDisclosure#Search"

	memberSearchSelector = "#search-members"
	lastNameSelector     = "input[name='LastName']"
	filingYearSelector   = "select[name='FilingYear']"
	submitSelector       = "//button[contains(normalize-space(.), 'Search')]"
	resultRowsSelector   = "#DataTables_Table_0 tbody tr"
	pdfLinkSelector      = "#DataTables_Table_0 a[href$='.pdf']"
)

// ErrLaunch wraps failures to start the browser. Callers treat it as fatal
// for the whole process rather than for one query.
var ErrLaunch = errors.New("browser launch failed")

// State is a step of one fetch iteration.
type State string

const (
	StateIdle            State = "idle"
	StateBrowserLaunched State = "browser_launched"
	StateNavigated       State = "navigated"
	StateFormSubmitted   State = "form_submitted"
	StateResultsReady    State = "results_ready"
	StateDownloading     State = "downloading"
	StateFailed          State = "failed"
	StateClosed          State = "closed"
)

// Getter downloads one URL and returns its body.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Fetcher runs search-and-download iterations. It holds no per-query state;
// every Fetch call gets its own browser session.
type Fetcher struct {
	launcher browser.Launcher
	getter   Getter
	cfg      types.FetchConfig
	out      io.Writer
	log      *slog.Logger
}

// New returns a Fetcher that prints progress lines to w. A nil logger
// means slog.Default().
func New(launcher browser.Launcher, getter Getter, cfg types.FetchConfig, w io.Writer, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{launcher: launcher, getter: getter, cfg: cfg, out: w, log: logger}
}

// Fetch searches for q and downloads every linked PDF into
// <OutputDir>/pdfs_<year>, in results-table order. The first failed download
// stops the iteration; files written before it stay on disk. The browser
// session is closed on every path out.
func (f *Fetcher) Fetch(ctx context.Context, q types.SearchQuery) (result types.FetchResult, err error) {
	fmt.Fprintf(f.out, "searching: %d reports for last name %q\n", q.Year, q.LastName)

	state := StateIdle

	sess, err := f.launcher.Launch(ctx)
	if err != nil {
		f.enter(&state, StateFailed)
		return result, fmt.Errorf("%w: %w", ErrLaunch, err)
	}
	f.enter(&state, StateBrowserLaunched)

	defer func() {
		if err != nil {
			f.log.Debug("fetch failed", "state", state, "err", err)
			f.enter(&state, StateFailed)
		}
		if cerr := sess.Close(); cerr != nil {
			f.log.Warn("closing browser session", "err", cerr)
		}
		f.enter(&state, StateClosed)
	}()

	links, err := f.search(ctx, sess, q, &state)
	if err != nil {
		return result, err
	}

	folder := filepath.Join(f.cfg.OutputDir, FolderName(q.Year))
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return result, fmt.Errorf("creating directory %s: %w", folder, err)
	}
	result.Folder = folder
	result.Files = []string{}

	f.enter(&state, StateDownloading)
	for i, link := range links {
		file, err := f.download(ctx, folder, i, link)
		if err != nil {
			return result, err
		}
		if err := writeOutput(file); err != nil {
			return result, err
		}
		result.Files = append(result.Files, file.Path)
		fmt.Fprintf(f.out, "downloaded: %s\n", file.Path)
	}

	fmt.Fprintf(f.out, "done: %d file(s) in %s\n", len(result.Files), folder)
	return result, nil
}

// search drives the portal form and returns the PDF links of the results
// table.
func (f *Fetcher) search(ctx context.Context, sess browser.Session, q types.SearchQuery, state *State) ([]types.DisclosureLink, error) {
	bc := f.cfg.Browser

	searchURL, err := ResolveURL(f.cfg.BaseURL, searchPath)
	if err != nil {
		return nil, err
	}
	if err := sess.Navigate(ctx, searchURL, bc.NavigationTimeout); err != nil {
		return nil, fmt.Errorf("opening search page: %w", err)
	}
	f.enter(state, StateNavigated)

	steps := []struct {
		name string
		run  func() error
	}{
		{"wait for member search", func() error { return sess.WaitFor(ctx, memberSearchSelector, bc.FormTimeout) }},
		{"open member search", func() error { return sess.Click(ctx, memberSearchSelector) }},
		{"wait for last name field", func() error { return sess.WaitFor(ctx, lastNameSelector, bc.FormTimeout) }},
		{"fill last name", func() error { return sess.FillField(ctx, lastNameSelector, q.LastName) }},
		{"select filing year", func() error { return sess.SelectOption(ctx, filingYearSelector, strconv.Itoa(q.Year)) }},
		{"submit search", func() error { return sess.Click(ctx, submitSelector) }},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			return nil, fmt.Errorf("%s: %w", step.name, err)
		}
	}
	f.enter(state, StateFormSubmitted)

	if err := sess.WaitFor(ctx, resultRowsSelector, bc.ResultsTimeout); err != nil {
		return nil, fmt.Errorf("waiting for results: %w", err)
	}
	links, err := sess.QueryLinks(ctx, pdfLinkSelector)
	if err != nil {
		return nil, fmt.Errorf("collecting links: %w", err)
	}
	f.enter(state, StateResultsReady)
	f.log.Debug("collected links", "count", len(links))
	return links, nil
}

// download fetches one link and names it after its label and position.
func (f *Fetcher) download(ctx context.Context, folder string, index int, link types.DisclosureLink) (types.OutputFile, error) {
	u, err := ResolveURL(f.cfg.BaseURL, link.Href)
	if err != nil {
		return types.OutputFile{}, err
	}
	body, err := f.getter.Get(ctx, u)
	if err != nil {
		return types.OutputFile{}, fmt.Errorf("downloading %s: %w", u, err)
	}
	return types.OutputFile{
		Path: filepath.Join(folder, FileName(link.Label, index)),
		Body: body,
	}, nil
}

// writeOutput writes file.Body to file.Path, replacing any existing file.
func writeOutput(file types.OutputFile) error {
	if err := os.WriteFile(file.Path, file.Body, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", file.Path, err)
	}
	return nil
}

func (f *Fetcher) enter(state *State, next State) {
	f.log.Debug("fetch state", "from", *state, "to", next)
	*state = next
}
