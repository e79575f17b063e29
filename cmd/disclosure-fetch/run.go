// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/disclosure-fetch/internal/browser"
	"github.com/pdiddy/disclosure-fetch/internal/fetch"
	"github.com/pdiddy/disclosure-fetch/internal/httputil"
	"github.com/pdiddy/disclosure-fetch/internal/prompt"
	"github.com/pdiddy/disclosure-fetch/pkg/types"
)

// queryPrompter is the interactive side of the loop.
type queryPrompter interface {
	CollectQuery() (types.SearchQuery, error)
	Confirm(question string) (bool, error)
}

// queryFetcher runs one search-and-download iteration.
type queryFetcher interface {
	Fetch(ctx context.Context, q types.SearchQuery) (types.FetchResult, error)
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	cfg := fetchConfig(viper.GetViper())

	// Setup problems are only warnings; a missing browser fails at launch.
	browser.EnsureBrowser(cfg.Browser, cmd.ErrOrStderr())

	launcher, err := browser.NewLauncher(cfg.Browser)
	if err != nil {
		return err
	}
	f := fetch.New(launcher, httputil.NewDownloader(cfg.HTTP), cfg, cmd.OutOrStdout(), nil)
	p := prompt.New(cmd.InOrStdin(), cmd.OutOrStdout())

	return interactiveLoop(cmd.Context(), p, f, cmd.OutOrStdout())
}

// interactiveLoop alternates prompting and fetching until the user declines
// to continue or input ends. Any fetch error ends the loop and is returned.
func interactiveLoop(ctx context.Context, p queryPrompter, f queryFetcher, w io.Writer) error {
	for {
		q, err := p.CollectQuery()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(w, "\nAll done!")
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		if _, err := f.Fetch(ctx, q); err != nil {
			return err
		}

		again, err := p.Confirm("Download another last name?")
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("reading input: %w", err)
		}
		if !again {
			fmt.Fprintln(w, "All done!")
			return nil
		}
	}
}
