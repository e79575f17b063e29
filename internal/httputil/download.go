// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP client used to download reports.
package httputil

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/pdiddy/disclosure-fetch/pkg/types"
)

// Downloader performs one blocking GET per call. It never retries and
// buffers the whole body in memory.
type Downloader struct {
	client *resty.Client
	log    *slog.Logger
}

// NewDownloader builds a Downloader with the configured timeout. The
// User-Agent header is only set when one is configured.
func NewDownloader(cfg types.HTTPConfig) *Downloader {
	return newDownloader(resty.New(), cfg)
}

// NewDownloaderWithClient is NewDownloader on top of an existing
// *http.Client, e.g. an httptest server's client.
func NewDownloaderWithClient(hc *http.Client, cfg types.HTTPConfig) *Downloader {
	return newDownloader(resty.NewWithClient(hc), cfg)
}

func newDownloader(c *resty.Client, cfg types.HTTPConfig) *Downloader {
	log := slog.Default()
	c.SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetLogger(slogLogger{log})
	if cfg.UserAgent != "" {
		c.SetHeader("User-Agent", cfg.UserAgent)
	}
	return &Downloader{client: c, log: log}
}

// Get fetches url and returns the response body whatever the status.
// A non-2xx status is logged as a warning; only transport failures
// return an error.
func (d *Downloader) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := d.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	if !resp.IsSuccess() {
		d.log.Warn("non-2xx download status", "url", url, "status", resp.StatusCode())
	}
	return resp.Body(), nil
}

// slogLogger routes resty's internal messages through slog.
type slogLogger struct {
	l *slog.Logger
}

func (s slogLogger) Errorf(format string, v ...interface{}) { s.l.Error(fmt.Sprintf(format, v...)) }
func (s slogLogger) Warnf(format string, v ...interface{})  { s.l.Warn(fmt.Sprintf(format, v...)) }
func (s slogLogger) Debugf(format string, v ...interface{}) { s.l.Debug(fmt.Sprintf(format, v...)) }
