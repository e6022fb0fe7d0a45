// SPDX-License-Identifier: MPL-2.0

package sol005

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/osmnfv/osm/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		host string
		port types.Port
		want string
	}{
		{"osm.example.com", 9999, "https://osm.example.com:9999/osm"},
		{"10.0.0.5:8443", 9999, "https://10.0.0.5:8443/osm"},
		{"localhost", 443, "https://localhost:443/osm"},
		{"::1", 9999, "https://[::1]:9999/osm"},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NewClient(tt.host, WithSOPort(tt.port)).BaseURL())
		})
	}
}

func TestClient_TokenIsRequestedOnceWithCredentials(t *testing.T) {
	t.Parallel()

	nbi := newFakeNBI(t, map[string]http.HandlerFunc{
		"GET " + sdnEndpoint: jsonHandler(http.StatusOK, []Resource{}),
	})
	client := nbi.client(WithCredentials("alice", "s3cret"), WithProject("lab"))

	for range 3 {
		_, err := client.SDNC().List(t.Context(), "")
		require.NoError(t, err)
	}

	tokens := nbi.tokenRequests()
	require.Len(t, tokens, 1)
	assert.Equal(t, map[string]any{"username": "alice", "password": "s3cret", "project_id": "lab"}, tokens[0].Body)

	for _, r := range nbi.requests() {
		assert.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "application/yaml", r.Header.Get("Content-Type"))
	}
}

func TestClient_AuthenticationFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(jsonHandler(http.StatusUnauthorized, map[string]any{"detail": "bad credentials"}))
	t.Cleanup(srv.Close)
	client := NewClient("unused", WithBaseURL(srv.URL+"/osm"), WithHTTPClient(srv.Client()))

	_, err := client.SDNC().List(t.Context(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.ErrorIs(t, err, ErrHTTPStatus)

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, DefaultUser, authErr.User)
}

func TestClient_Version(t *testing.T) {
	t.Parallel()

	nbi := newFakeNBI(t, map[string]http.HandlerFunc{
		"GET " + versionEndpoint: jsonHandler(http.StatusOK, map[string]any{"version": "15.0.1", "date": "2024-01-10"}),
	})

	got, err := nbi.client().Version(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "15.0.1 2024-01-10", got)
	assert.Empty(t, nbi.tokenRequests(), "version must not require a token")
}

func TestClient_HTTPErrorMessage(t *testing.T) {
	t.Parallel()

	nbi := newFakeNBI(t, map[string]http.HandlerFunc{
		"GET " + sdnEndpoint: func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("boom"))
		},
	})

	_, err := nbi.client().SDNC().List(t.Context(), "")
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, "Error 500: boom", httpErr.Error())
}

func TestClient_PasswordMaskedInDebugLog(t *testing.T) {
	t.Parallel()

	nbi := newFakeNBI(t, map[string]http.HandlerFunc{
		"POST " + sdnEndpoint: jsonHandler(http.StatusCreated, map[string]any{"id": "abc"}),
	})
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client := nbi.client(WithLogger(logger), WithCredentials("admin", "tokenpass"))

	_, err := client.SDNC().Create(t.Context(), SDNController{Name: "odl", Type: "onos", Password: "hunter2"}, false)
	require.NoError(t, err)

	out := logs.String()
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "tokenpass")
	assert.Contains(t, out, maskedPassword)
}

func TestMaskPassword(t *testing.T) {
	t.Parallel()

	in := map[string]any{"user": "u", "password": "p"}
	out := maskPassword(in)
	assert.Equal(t, map[string]any{"user": "u", "password": maskedPassword}, out)
	assert.Equal(t, "p", in["password"], "input must not be modified")

	assert.Nil(t, maskPassword(nil))
	assert.Equal(t, map[string]any{"name": "x", "type": "t"}, maskPassword(SDNController{Name: "x", Type: "t"}))
}

func TestRedactURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://h:9999/osm/admin/v1/sdns/1", redactURL("https://h:9999/osm/admin/v1/sdns/1?FORCE=True#x"))
	assert.Equal(t, "<invalid-url>", redactURL("://bad"))
}

func TestResource_Lookup(t *testing.T) {
	t.Parallel()

	r := Resource{
		"_id":  "1",
		"name": "odl",
		"port": float64(8181),
		"_admin": map[string]any{
			"operationalState": "ENABLED",
		},
	}
	assert.Equal(t, "1", r.ID())
	assert.Equal(t, "odl", r.Name())
	assert.Equal(t, "ENABLED", r.String("_admin.operationalState"))
	assert.Equal(t, "8181", r.String("port"))
	assert.Empty(t, r.String("_admin.missing"))
	assert.Empty(t, r.String("name.nested"))

	_, ok := r.Lookup("nope")
	assert.False(t, ok)
}

func TestErrorsUnwrap(t *testing.T) {
	t.Parallel()

	err := &ClientError{Message: "failed", Err: &HTTPError{Status: 409, Body: "conflict"}}
	assert.True(t, errors.Is(err, ErrClient))
	assert.True(t, errors.Is(err, ErrHTTPStatus))
	assert.Equal(t, "failed - Error 409: conflict", err.Error())

	bare := &ClientError{Err: ErrWIMTypeRequired}
	assert.Equal(t, "wim type not provided", bare.Error())
	assert.ErrorIs(t, bare, ErrClient)

	assert.ErrorIs(t, &NotFoundError{Kind: "wim", Name: "w"}, ErrNotFound)
	assert.Equal(t, "wim w not found", (&NotFoundError{Kind: "wim", Name: "w"}).Error())
}
