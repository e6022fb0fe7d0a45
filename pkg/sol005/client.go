// SPDX-License-Identifier: MPL-2.0

package sol005

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/osmnfv/osm/pkg/types"

	"github.com/spf13/afero"
)

const (
	// DefaultSOPort is the northbound API port used when the host carries none.
	DefaultSOPort types.Port = 9999
	// DefaultPollInterval is the delay between two status polls.
	DefaultPollInterval = time.Second
	// DefaultTimeout bounds a wait for a resource to settle.
	DefaultTimeout = 600 * time.Second

	// DefaultUser, DefaultPassword and DefaultProject are the platform's
	// out-of-the-box credentials.
	DefaultUser     = "admin"
	DefaultPassword = "admin"
	DefaultProject  = "admin"

	tokenEndpoint   = "/admin/v1/tokens"
	versionEndpoint = "/version"
)

type (
	// Client talks to one OSM server. It is safe for concurrent use.
	Client struct {
		httpClient   *http.Client
		baseURL      string
		host         string
		soPort       types.Port
		user         string
		password     string
		project      string
		insecure     bool
		logger       *slog.Logger
		pollInterval time.Duration
		timeout      time.Duration
		fs           afero.Fs

		mu    sync.Mutex
		token string
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)
)

// WithSOPort sets the port used when the host has none.
func WithSOPort(p types.Port) ClientOption {
	return func(c *Client) {
		c.soPort = p
	}
}

// WithCredentials sets the user and password used to obtain a token.
func WithCredentials(user, password string) ClientOption {
	return func(c *Client) {
		c.user = user
		c.password = password
	}
}

// WithProject sets the project the token is scoped to.
func WithProject(project string) ClientOption {
	return func(c *Client) {
		c.project = project
	}
}

// WithHTTPClient sets a custom HTTP client. WithInsecureSkipVerify has no
// effect on a client set this way.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL overrides the computed "https://host:port/osm" base, primarily
// for test servers.
func WithBaseURL(base string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

// WithInsecureSkipVerify toggles TLS certificate verification. It defaults
// to true because platform installations ship self-signed certificates.
func WithInsecureSkipVerify(skip bool) ClientOption {
	return func(c *Client) {
		c.insecure = skip
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// WithPollInterval sets the delay between status polls when waiting.
func WithPollInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		c.pollInterval = d
	}
}

// WithTimeout bounds how long a wait may take.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithFs sets the filesystem WIM port mapping files are read from.
func WithFs(fs afero.Fs) ClientOption {
	return func(c *Client) {
		c.fs = fs
	}
}

// NewClient creates a client for host, which may be "name" or "name:port".
func NewClient(host string, opts ...ClientOption) *Client {
	c := &Client{
		host:         host,
		soPort:       DefaultSOPort,
		user:         DefaultUser,
		password:     DefaultPassword,
		project:      DefaultProject,
		insecure:     true,
		pollInterval: DefaultPollInterval,
		timeout:      DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.fs == nil {
		c.fs = afero.NewOsFs()
	}
	if c.baseURL == "" {
		c.baseURL = buildBaseURL(c.host, c.soPort)
	}
	if c.httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: c.insecure} //nolint:gosec // opt-out is configurable
		c.httpClient = &http.Client{Transport: transport}
	}
	return c
}

// buildBaseURL returns "https://<host>:<port>/osm". A port embedded in host
// wins over soPort.
func buildBaseURL(host string, soPort types.Port) string {
	if h, p, err := net.SplitHostPort(host); err == nil {
		return "https://" + net.JoinHostPort(h, p) + "/osm"
	}
	return "https://" + net.JoinHostPort(host, strconv.Itoa(int(soPort))) + "/osm"
}

// BaseURL returns the API root every endpoint is appended to.
func (c *Client) BaseURL() string { return c.baseURL }

// SDNC returns the SDN controller resource client.
func (c *Client) SDNC() *SdnController { return &SdnController{client: c} }

// WIM returns the WIM account resource client.
func (c *Client) WIM() *Wim { return &Wim{client: c} }

// Version returns "<version> <date>" as reported by the server.
func (c *Client) Version(ctx context.Context) (string, error) {
	_, body, err := c.send(ctx, http.MethodGet, versionEndpoint, nil, false)
	if err != nil {
		return "", err
	}

	var v struct {
		Version string `json:"version"`
		Date    string `json:"date"`
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return "", fmt.Errorf("decoding version: %w", err)
	}
	return v.Version + " " + v.Date, nil
}

// authToken returns the cached token, requesting one on first use.
func (c *Client) authToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, nil
	}

	payload := map[string]any{
		"username":   c.user,
		"password":   c.password,
		"project_id": c.project,
	}
	_, body, err := c.send(ctx, http.MethodPost, tokenEndpoint, payload, false)
	if err != nil {
		return "", &AuthenticationError{User: c.user, Project: c.project, Err: err}
	}

	var token struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &token); err != nil || token.ID == "" {
		return "", &AuthenticationError{User: c.user, Project: c.project, Err: fmt.Errorf("no token id in response %s", truncate(body))}
	}
	c.token = token.ID
	c.logger.Debug("token obtained", "user", c.user, "project", c.project)
	return c.token, nil
}
