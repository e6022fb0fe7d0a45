// SPDX-License-Identifier: MPL-2.0

package sol005

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
)

const (
	// maxJSONResponseBytes is the upper bound on a response body (10 MB).
	maxJSONResponseBytes = 10 << 20

	// maskedPassword replaces password values in logged request bodies.
	maskedPassword = "******"
)

// do sends an authenticated request.
func (c *Client) do(ctx context.Context, method, endpoint string, payload any) (int, []byte, error) {
	return c.send(ctx, method, endpoint, payload, true)
}

// send issues method on baseURL+endpoint. payload, when non-nil, is sent as
// JSON (a YAML subset, matching the declared content type). The status and
// body are returned even when the status is >= 300, together with an *HTTPError.
func (c *Client) send(ctx context.Context, method, endpoint string, payload any, authenticated bool) (int, []byte, error) {
	var body io.Reader = http.NoBody
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	reqURL := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/yaml")

	if authenticated {
		token, tokenErr := c.authToken(ctx)
		if tokenErr != nil {
			return 0, nil, tokenErr
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("request", "method", method, "url", redactURL(reqURL), "body", maskPassword(payload))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, redactURL(reqURL), err)
	}
	defer func() {
		// Response body is fully consumed below; close errors carry no information.
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxJSONResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading response: %w", err)
	}
	c.logger.Debug("response", "method", method, "url", redactURL(reqURL), "status", resp.StatusCode, "body", truncate(respBody))

	if resp.StatusCode >= http.StatusMultipleChoices {
		return resp.StatusCode, respBody, &HTTPError{Status: resp.StatusCode, Body: string(respBody)}
	}
	return resp.StatusCode, respBody, nil
}

// getResource GETs endpoint and decodes a single JSON object.
func (c *Client) getResource(ctx context.Context, endpoint string) (Resource, error) {
	_, body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return decodeResource(body)
}

// listResources GETs endpoint, with filter appended as the raw query when
// set, and decodes a JSON array of objects.
func (c *Client) listResources(ctx context.Context, endpoint, filter string) ([]Resource, error) {
	if filter != "" {
		endpoint += "?" + filter
	}
	_, body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var list []Resource
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", endpoint, err)
	}
	return list, nil
}

// maskPassword returns payload with any top-level "password" value replaced.
// Structs are converted to their JSON object form first.
func maskPassword(payload any) any {
	if payload == nil {
		return nil
	}
	m, ok := payload.(map[string]any)
	if !ok {
		data, err := json.Marshal(payload)
		if err != nil || json.Unmarshal(data, &m) != nil {
			return payload
		}
	}
	if _, has := m["password"]; !has {
		return m
	}
	masked := maps.Clone(m)
	masked["password"] = maskedPassword
	return masked
}

// redactURL strips query parameters and fragments from a URL for safe inclusion
// in logs and error messages.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid-url>"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// truncate shortens a body for log and error messages.
func truncate(body []byte) string {
	const limit = 512
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}

func decodeResource(body []byte) (Resource, error) {
	var r Resource
	if len(body) == 0 {
		return r, nil
	}
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return r, nil
}
