// SPDX-License-Identifier: MPL-2.0

package sol005

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

const testToken = "token-123"

type (
	recordedRequest struct {
		Method string
		Path   string
		Query  string
		Body   map[string]any
		Header http.Header
	}

	// fakeNBI is an httptest server speaking the subset of the northbound API
	// the client uses. Routes are keyed by "METHOD /path" without the /osm prefix.
	fakeNBI struct {
		srv    *httptest.Server
		mu     sync.Mutex
		seen   []recordedRequest
		routes map[string]http.HandlerFunc
	}
)

func newFakeNBI(t *testing.T, routes map[string]http.HandlerFunc) *fakeNBI {
	t.Helper()
	f := &fakeNBI{routes: routes}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeNBI) serve(w http.ResponseWriter, r *http.Request) {
	path, _ := strings.CutPrefix(r.URL.Path, "/osm")

	rec := recordedRequest{Method: r.Method, Path: path, Query: r.URL.RawQuery, Header: r.Header.Clone()}
	if data, err := io.ReadAll(r.Body); err == nil && len(data) > 0 {
		_ = json.Unmarshal(data, &rec.Body)
	}
	f.mu.Lock()
	f.seen = append(f.seen, rec)
	f.mu.Unlock()

	if r.Method == http.MethodPost && path == tokenEndpoint {
		writeJSON(w, http.StatusOK, map[string]any{"id": testToken})
		return
	}
	if path != versionEndpoint && r.Header.Get("Authorization") != "Bearer "+testToken {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "missing token"})
		return
	}

	if h, ok := f.routes[r.Method+" "+path]; ok {
		h(w, r)
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"detail": "no route " + r.Method + " " + path})
}

func (f *fakeNBI) client(opts ...ClientOption) *Client {
	base := []ClientOption{
		WithBaseURL(f.srv.URL + "/osm"),
		WithHTTPClient(f.srv.Client()),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithPollInterval(5 * time.Millisecond),
		WithTimeout(2 * time.Second),
	}
	return NewClient("unused", append(base, opts...)...)
}

// requests returns the recorded requests other than token acquisition.
func (f *fakeNBI) requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recordedRequest
	for _, r := range f.seen {
		if r.Path != tokenEndpoint {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeNBI) tokenRequests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recordedRequest
	for _, r := range f.seen {
		if r.Path == tokenEndpoint {
			out = append(out, r)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonHandler(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, status, v)
	}
}

func statusHandler(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	}
}
