// SPDX-License-Identifier: MPL-2.0

package sol005

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	sdnEndpoint = "/admin/v1/sdns"
	sdnKind     = "SDN controller"

	// MessageDeletionInProgress is returned by deletes the server accepted (202).
	MessageDeletionInProgress = "Deletion in progress"
	// MessageDeleted is returned by deletes the server completed (204).
	MessageDeleted = "Deleted"

	forceQuery = "?FORCE=True"
)

type (
	// SDNController is the body of an SDN controller registration.
	SDNController struct {
		Name     string `json:"name"`
		Type     string `json:"type"`
		IP       string `json:"ip,omitempty"`
		Port     int    `json:"port,omitempty"`
		DPID     string `json:"dpid,omitempty"`
		Version  string `json:"version,omitempty"`
		User     string `json:"user,omitempty"`
		Password string `json:"password,omitempty"`
	}

	// SdnController manages /admin/v1/sdns.
	SdnController struct {
		client *Client
	}
)

// Create registers sdnc and returns its id. With wait set it blocks until
// the controller is ENABLED.
func (s *SdnController) Create(ctx context.Context, sdnc SDNController, wait bool) (string, error) {
	_, body, err := s.client.do(ctx, http.MethodPost, sdnEndpoint, sdnc)
	if err != nil {
		return "", &ClientError{Message: "failed to create SDN controller " + sdnc.Name, Err: err}
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.ID == "" {
		return "", &ClientError{Message: "unexpected response from server: " + truncate(body)}
	}

	if wait {
		if err := s.client.waitForStatus(ctx, sdnEndpoint, resp.ID, false); err != nil {
			return resp.ID, err
		}
	}
	return resp.ID, nil
}

// Update PATCHes the controller named name with fields. A nil value clears
// the field on the server.
func (s *SdnController) Update(ctx context.Context, name string, fields map[string]any, wait bool) error {
	current, err := s.Get(ctx, name)
	if err != nil {
		return err
	}
	id := current.ID()

	if _, _, err := s.client.do(ctx, http.MethodPatch, sdnEndpoint+"/"+id, fields); err != nil {
		return &ClientError{Message: "failed to update SDN controller " + name, Err: err}
	}

	if wait {
		return s.client.waitForStatus(ctx, sdnEndpoint, id, false)
	}
	return nil
}

// Delete removes the controller named name and returns MessageDeleted or
// MessageDeletionInProgress. force asks the server to skip its checks.
func (s *SdnController) Delete(ctx context.Context, name string, force, wait bool) (string, error) {
	current, err := s.Get(ctx, name)
	if err != nil {
		return "", err
	}
	return deleteResource(ctx, s.client, sdnEndpoint, current.ID(), "failed to delete SDN controller "+name, force, wait)
}

// List returns every controller, optionally narrowed by a raw query filter
// such as "name=odl".
func (s *SdnController) List(ctx context.Context, filter string) ([]Resource, error) {
	return s.client.listResources(ctx, sdnEndpoint, filter)
}

// Get returns the controller whose "_id" equals name when name is a UUID,
// else whose "name" equals name.
func (s *SdnController) Get(ctx context.Context, name string) (Resource, error) {
	list, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}

	field := "name"
	if isUUID(name) {
		field = "_id"
	}
	for _, r := range list {
		if r.String(field) == name {
			return r, nil
		}
	}
	return nil, &NotFoundError{Kind: sdnKind, Name: name}
}

// deleteResource issues DELETE endpoint/id and maps the status to a message.
func deleteResource(ctx context.Context, c *Client, endpoint, id, failure string, force, wait bool) (string, error) {
	path := endpoint + "/" + id
	if force {
		path += forceQuery
	}

	status, body, err := c.do(ctx, http.MethodDelete, path, nil)
	switch {
	case err == nil && status == http.StatusAccepted:
		if wait {
			if err := c.waitForStatus(ctx, endpoint, id, true); err != nil {
				return "", err
			}
		}
		return MessageDeletionInProgress, nil
	case err == nil && status == http.StatusNoContent:
		return MessageDeleted, nil
	case err != nil:
		return "", &ClientError{Message: failure, Err: err}
	default:
		return "", &ClientError{Message: failure, Err: fmt.Errorf("unexpected status %d: %s", status, truncate(body))}
	}
}
