// SPDX-License-Identifier: MPL-2.0

package sol005

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"
)

const (
	operationalStatePath = "_admin.operationalState"
	detailedStatusPath   = "_admin.detailed-status"

	stateEnabled = "ENABLED"
	stateError   = "ERROR"
)

// finishedStates are the operational states after which an administrative
// resource no longer changes on its own.
var finishedStates = []string{stateEnabled, stateError}

// waitForStatus polls endpoint/id until the resource settles.
//
// For creates and updates the resource must reach ENABLED; ERROR fails with
// the server's detailed status. For deletes (deleting set) only a 404 counts
// as success. The wait is bounded by the client timeout and by ctx.
func (c *Client) waitForStatus(ctx context.Context, endpoint, id string, deleting bool) error {
	timeout := c.timeout
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	statusURL := endpoint + "/" + id
	for {
		done, err := c.pollOnce(ctx, statusURL, deleting)
		if err != nil || done {
			return err
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return &TimeoutError{Seconds: int(timeout.Seconds())}
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// pollOnce fetches the resource once and reports whether waiting is over.
func (c *Client) pollOnce(ctx context.Context, statusURL string, deleting bool) (bool, error) {
	status, body, err := c.do(ctx, http.MethodGet, statusURL, nil)
	if deleting && status == http.StatusNotFound {
		return true, nil
	}
	if err != nil {
		if ctx.Err() != nil {
			// The select in waitForStatus turns this into a timeout or cancellation.
			return false, nil
		}
		return false, err
	}

	r, decodeErr := decodeResource(body)
	if decodeErr != nil {
		return false, decodeErr
	}

	state := r.String(operationalStatePath)
	c.logger.Debug("operation status", "url", statusURL, "state", state)
	if !slices.Contains(finishedStates, state) {
		return false, nil
	}
	if state == stateError {
		return false, &ClientError{Message: "operation failed", Err: errors.New(r.String(detailedStatusPath))}
	}
	// An ENABLED resource is still being removed while a delete is in progress.
	return !deleting, nil
}
