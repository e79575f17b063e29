// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/disclosure-fetch/internal/browser"
	"github.com/pdiddy/disclosure-fetch/internal/httputil"
	"github.com/pdiddy/disclosure-fetch/pkg/types"
)

// fakeSession scripts a browser session and records every call.
type fakeSession struct {
	links   []types.DisclosureLink
	failOn  string // "method selector" that returns failErr
	failErr error
	calls   []string
	closed  int
}

func (s *fakeSession) record(method, arg string) error {
	call := method + " " + arg
	s.calls = append(s.calls, call)
	if call == s.failOn {
		return s.failErr
	}
	return nil
}

func (s *fakeSession) Navigate(_ context.Context, url string, _ time.Duration) error {
	return s.record("navigate", url)
}

func (s *fakeSession) WaitFor(_ context.Context, selector string, _ time.Duration) error {
	return s.record("wait", selector)
}

func (s *fakeSession) Click(_ context.Context, selector string) error {
	return s.record("click", selector)
}

func (s *fakeSession) FillField(_ context.Context, selector, value string) error {
	return s.record("fill", selector+"="+value)
}

func (s *fakeSession) SelectOption(_ context.Context, selector, label string) error {
	return s.record("select", selector+"="+label)
}

func (s *fakeSession) QueryLinks(_ context.Context, selector string) ([]types.DisclosureLink, error) {
	if err := s.record("links", selector); err != nil {
		return nil, err
	}
	return s.links, nil
}

func (s *fakeSession) Close() error {
	s.closed++
	return nil
}

type fakeLauncher struct {
	session *fakeSession
	err     error
}

func (l *fakeLauncher) Launch(context.Context) (browser.Session, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.session, nil
}

// newPortal serves PDF bodies keyed by path; a path mapped to "" fails the
// connection to simulate a network error.
func newPortal(t *testing.T, bodies map[string]string) (*httptest.Server, *[]string) {
	t.Helper()
	var requested []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.Path)
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if body == "" {
			if hj, ok := w.(http.Hijacker); ok {
				if conn, _, err := hj.Hijack(); err == nil {
					conn.Close()
				}
			}
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)
	return ts, &requested
}

func testConfig(baseURL, dir string) types.FetchConfig {
	cfg := types.DefaultFetchConfig()
	cfg.BaseURL = baseURL + "/"
	cfg.OutputDir = dir
	cfg.HTTP.Timeout = 5 * time.Second
	return cfg
}

func newTestFetcher(ts *httptest.Server, l browser.Launcher, cfg types.FetchConfig, w *bytes.Buffer) *Fetcher {
	return New(l, httputil.NewDownloaderWithClient(ts.Client(), cfg.HTTP), cfg, w, nil)
}

func TestFetchDownloadsInTableOrder(t *testing.T) {
	ts, requested := newPortal(t, map[string]string{
		"/a.pdf": "%PDF-1.4 report A",
		"/b.pdf": "%PDF-1.4 report B",
	})
	dir := t.TempDir()
	cfg := testConfig(ts.URL, dir)
	sess := &fakeSession{links: []types.DisclosureLink{
		{Href: "/a.pdf", Label: "Rep A"},
		{Href: "/b.pdf", Label: "Rep B"},
	}}
	var buf bytes.Buffer

	res, err := newTestFetcher(ts, &fakeLauncher{session: sess}, cfg, &buf).
		Fetch(context.Background(), types.SearchQuery{Year: 2022, LastName: "Smith"})
	require.NoError(t, err)

	folder := filepath.Join(dir, "pdfs_2022")
	assert.Equal(t, folder, res.Folder)
	assert.Equal(t, []string{
		filepath.Join(folder, "Rep A_0.pdf"),
		filepath.Join(folder, "Rep B_1.pdf"),
	}, res.Files)
	assert.Equal(t, []string{"/a.pdf", "/b.pdf"}, *requested)

	data, err := os.ReadFile(filepath.Join(folder, "Rep A_0.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 report A", string(data))
	data, err = os.ReadFile(filepath.Join(folder, "Rep B_1.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 report B", string(data))

	assert.Equal(t, 1, sess.closed)
	assert.Contains(t, buf.String(), "downloaded: "+filepath.Join(folder, "Rep A_0.pdf"))
}

func TestFetchDrivesSearchForm(t *testing.T) {
	ts, _ := newPortal(t, nil)
	cfg := testConfig(ts.URL, t.TempDir())
	sess := &fakeSession{}
	var buf bytes.Buffer

	_, err := newTestFetcher(ts, &fakeLauncher{session: sess}, cfg, &buf).
		Fetch(context.Background(), types.SearchQuery{Year: 2019, LastName: "O'Neil"})
	require.NoError(t, err)

	want := []string{
		"navigate " + ts.URL + "/FinancialDisclosure#Search",
		"wait #search-members",
		"click #search-members",
		"wait input[name='LastName']",
		"fill input[name='LastName']=O'Neil",
		"select select[name='FilingYear']=2019",
		"click " + submitSelector,
		"wait #DataTables_Table_0 tbody tr",
		"links #DataTables_Table_0 a[href$='.pdf']",
	}
	assert.Equal(t, want, sess.calls)
}

func TestFetchZeroLinks(t *testing.T) {
	ts, requested := newPortal(t, nil)
	dir := t.TempDir()
	cfg := testConfig(ts.URL, dir)
	sess := &fakeSession{}
	var buf bytes.Buffer

	res, err := newTestFetcher(ts, &fakeLauncher{session: sess}, cfg, &buf).
		Fetch(context.Background(), types.SearchQuery{Year: 2022, LastName: "Nobody"})
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, "pdfs_2022"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	entries, err := os.ReadDir(filepath.Join(dir, "pdfs_2022"))
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, res.Files)
	assert.Empty(t, *requested)
	assert.Equal(t, 1, sess.closed)
}

func TestFetchStopsAtFailedDownload(t *testing.T) {
	ts, requested := newPortal(t, map[string]string{
		"/a.pdf": "%PDF-1.4 report A",
		"/b.pdf": "",
		"/c.pdf": "%PDF-1.4 report C",
	})
	dir := t.TempDir()
	cfg := testConfig(ts.URL, dir)
	sess := &fakeSession{links: []types.DisclosureLink{
		{Href: "/a.pdf", Label: "Rep A"},
		{Href: "/b.pdf", Label: "Rep B"},
		{Href: "/c.pdf", Label: "Rep C"},
	}}
	var buf bytes.Buffer

	res, err := newTestFetcher(ts, &fakeLauncher{session: sess}, cfg, &buf).
		Fetch(context.Background(), types.SearchQuery{Year: 2022, LastName: "Smith"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/b.pdf")

	folder := filepath.Join(dir, "pdfs_2022")
	_, err = os.Stat(filepath.Join(folder, "Rep A_0.pdf"))
	assert.NoError(t, err, "file before the failure stays on disk")
	_, err = os.Stat(filepath.Join(folder, "Rep B_1.pdf"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(folder, "Rep C_2.pdf"))
	assert.True(t, os.IsNotExist(err))

	assert.Equal(t, []string{filepath.Join(folder, "Rep A_0.pdf")}, res.Files)
	assert.NotContains(t, *requested, "/c.pdf")
	assert.Equal(t, 1, sess.closed)
}

func TestFetchWritesErrorStatusBodyAndContinues(t *testing.T) {
	ts, requested := newPortal(t, map[string]string{"/a.pdf": "%PDF-1.4 report A"})
	dir := t.TempDir()
	cfg := testConfig(ts.URL, dir)
	sess := &fakeSession{links: []types.DisclosureLink{
		{Href: "/missing.pdf", Label: "Gone"},
		{Href: "/a.pdf", Label: "Rep A"},
	}}
	var buf bytes.Buffer

	res, err := newTestFetcher(ts, &fakeLauncher{session: sess}, cfg, &buf).
		Fetch(context.Background(), types.SearchQuery{Year: 2022, LastName: "Smith"})
	require.NoError(t, err)

	folder := filepath.Join(dir, "pdfs_2022")
	gone, err := os.ReadFile(filepath.Join(folder, "Gone_0.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "404 page not found\n", string(gone))

	repA, err := os.ReadFile(filepath.Join(folder, "Rep A_1.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 report A", string(repA))

	assert.Equal(t, []string{
		filepath.Join(folder, "Gone_0.pdf"),
		filepath.Join(folder, "Rep A_1.pdf"),
	}, res.Files)
	assert.Equal(t, []string{"/missing.pdf", "/a.pdf"}, *requested)
	assert.Equal(t, 1, sess.closed)
}

func TestFetchTimeoutClosesSession(t *testing.T) {
	ts, _ := newPortal(t, nil)
	dir := t.TempDir()
	cfg := testConfig(ts.URL, dir)
	sess := &fakeSession{
		failOn:  "wait #DataTables_Table_0 tbody tr",
		failErr: fmt.Errorf("%w after 20s", browser.ErrTimeout),
	}
	var buf bytes.Buffer

	_, err := newTestFetcher(ts, &fakeLauncher{session: sess}, cfg, &buf).
		Fetch(context.Background(), types.SearchQuery{Year: 2022, LastName: "Smith"})
	require.Error(t, err)
	assert.ErrorIs(t, err, browser.ErrTimeout)
	assert.Equal(t, 1, sess.closed)

	_, err = os.Stat(filepath.Join(dir, "pdfs_2022"))
	assert.True(t, os.IsNotExist(err), "no folder before results are ready")
}

func TestFetchFormFailureNamesStep(t *testing.T) {
	ts, _ := newPortal(t, nil)
	cfg := testConfig(ts.URL, t.TempDir())
	sess := &fakeSession{
		failOn:  "select select[name='FilingYear']=2022",
		failErr: errors.New("no option labelled"),
	}
	var buf bytes.Buffer

	_, err := newTestFetcher(ts, &fakeLauncher{session: sess}, cfg, &buf).
		Fetch(context.Background(), types.SearchQuery{Year: 2022, LastName: "Smith"})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "select filing year"))
	assert.Equal(t, 1, sess.closed)
}

func TestFetchLaunchFailure(t *testing.T) {
	ts, _ := newPortal(t, nil)
	cfg := testConfig(ts.URL, t.TempDir())
	var buf bytes.Buffer

	_, err := newTestFetcher(ts, &fakeLauncher{err: errors.New("exec: chrome not found")}, cfg, &buf).
		Fetch(context.Background(), types.SearchQuery{Year: 2022, LastName: "Smith"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLaunch)
	assert.Contains(t, err.Error(), "chrome not found")
}

func TestFetchOverwritesAndAccumulates(t *testing.T) {
	ts, _ := newPortal(t, map[string]string{"/a.pdf": "new body"})
	dir := t.TempDir()
	cfg := testConfig(ts.URL, dir)

	folder := filepath.Join(dir, "pdfs_2022")
	require.NoError(t, os.MkdirAll(folder, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(folder, "Rep A_0.pdf"), []byte("old body"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(folder, "Other_0.pdf"), []byte("earlier run"), 0o644))

	sess := &fakeSession{links: []types.DisclosureLink{{Href: "a.pdf", Label: "Rep A"}}}
	var buf bytes.Buffer
	_, err := newTestFetcher(ts, &fakeLauncher{session: sess}, cfg, &buf).
		Fetch(context.Background(), types.SearchQuery{Year: 2022, LastName: "Smith"})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(folder, "Rep A_0.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "new body", string(data))

	data, err = os.ReadFile(filepath.Join(folder, "Other_0.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "earlier run", string(data))
}
