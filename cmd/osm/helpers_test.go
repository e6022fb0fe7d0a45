// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/osmnfv/osm/internal/config"
	"github.com/osmnfv/osm/pkg/osmpkg"
	"github.com/osmnfv/osm/pkg/sol005"
)

const testToken = "cli-token"

type (
	// stubConfigProvider returns a fixed configuration and records the options.
	stubConfigProvider struct {
		cfg  *config.Config
		err  error
		mu   sync.Mutex
		opts config.LoadOptions
	}

	recordedRequest struct {
		Method string
		Path   string
		Query  string
		Body   map[string]any
	}

	// fakeNBI serves the token endpoint and the routes given to it.
	fakeNBI struct {
		srv    *httptest.Server
		mu     sync.Mutex
		seen   []recordedRequest
		routes map[string]http.HandlerFunc
	}

	// harness runs commands against an App with captured output.
	harness struct {
		app    *App
		cfg    *config.Config
		stdout *bytes.Buffer
		stderr *bytes.Buffer
	}
)

func (s *stubConfigProvider) Load(_ context.Context, opts config.LoadOptions) (*config.Config, error) {
	s.mu.Lock()
	s.opts = opts
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.cfg, nil
}

func newFakeNBI(t *testing.T, routes map[string]http.HandlerFunc) *fakeNBI {
	t.Helper()
	f := &fakeNBI{routes: routes}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeNBI) serve(w http.ResponseWriter, r *http.Request) {
	path, _ := strings.CutPrefix(r.URL.Path, "/osm")
	if r.Method == http.MethodPost && path == "/admin/v1/tokens" {
		writeJSON(w, http.StatusOK, map[string]any{"id": testToken})
		return
	}

	rec := recordedRequest{Method: r.Method, Path: path, Query: r.URL.RawQuery}
	if data, err := io.ReadAll(r.Body); err == nil && len(data) > 0 {
		_ = json.Unmarshal(data, &rec.Body)
	}
	f.mu.Lock()
	f.seen = append(f.seen, rec)
	f.mu.Unlock()

	if h, ok := f.routes[r.Method+" "+path]; ok {
		h(w, r)
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"detail": "no route"})
}

// last returns the last recorded request with the given method.
func (f *fakeNBI) last(method string) (recordedRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.seen) - 1; i >= 0; i-- {
		if f.seen[i].Method == method {
			return f.seen[i], true
		}
	}
	return recordedRequest{}, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonHandler(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) { writeJSON(w, status, v) }
}

// newHarness builds an App whose client talks to nbi (when set) and whose
// package tool uses buildTool (when set).
func newHarness(t *testing.T, nbi *fakeNBI, buildTool osmpkg.BuildTool) *harness {
	t.Helper()

	h := &harness{
		cfg:    config.DefaultConfig(),
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	h.cfg.UI.ColorScheme = config.ColorSchemeDark

	deps := Dependencies{
		Config: &stubConfigProvider{cfg: h.cfg},
		Stdout: h.stdout,
		Stderr: h.stderr,
	}
	if nbi != nil {
		deps.NewClient = func(cfg *config.Config, logger *slog.Logger) *sol005.Client {
			return sol005.NewClient(cfg.Hostname,
				sol005.WithBaseURL(nbi.srv.URL+"/osm"),
				sol005.WithHTTPClient(nbi.srv.Client()),
				sol005.WithLogger(logger),
				sol005.WithPollInterval(5*time.Millisecond),
				sol005.WithTimeout(2*time.Second),
			)
		}
	}
	if buildTool != nil {
		deps.NewTool = func(cfg *config.Config, logger *slog.Logger, stdout, stderr io.Writer) *osmpkg.Tool {
			return osmpkg.New(osmpkg.WithBuildTool(buildTool), osmpkg.WithLogger(logger))
		}
	}
	h.app = NewApp(deps)
	return h
}

func (h *harness) run(t *testing.T, args ...string) error {
	t.Helper()
	root := NewRootCommand(h.app)
	root.SetArgs(args)
	root.SetOut(h.stdout)
	root.SetErr(h.stderr)
	return root.ExecuteContext(t.Context())
}
