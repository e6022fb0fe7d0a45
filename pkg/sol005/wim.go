// SPDX-License-Identifier: MPL-2.0

package sol005

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	wimEndpoint = "/admin/v1/wim_accounts"
	wimKind     = "wim"

	wimPortMappingKey = "wim_port_mapping"

	// DefaultWIMDescription is sent when a WIM account is created without one.
	DefaultWIMDescription = "no description"
)

var (
	// ErrWIMTypeRequired is returned by Create when WIMAccount.Type is empty.
	ErrWIMTypeRequired = errors.New("wim type not provided")
	// ErrClearConfigWithPortMapping is returned by Update when the config is
	// cleared and a port mapping is supplied at the same time.
	ErrClearConfigWithPortMapping = errors.New("clearing config is incompatible with updating SDN info")

	// createdStatuses are the statuses a create or update may answer with.
	createdStatuses = []int{http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNoContent}
)

type (
	// WIMAccount is a WIM registration.
	WIMAccount struct {
		Name        string
		Type        string
		URL         string
		User        string
		Password    string
		Description string
		// Config is a YAML document with plugin-specific settings.
		Config string
		// PortMappingFile is a YAML file stored under config.wim_port_mapping.
		PortMappingFile string
	}

	// WIMUpdate lists the fields to change. Nil pointers are left untouched.
	WIMUpdate struct {
		NewName     *string
		Type        *string
		URL         *string
		User        *string
		Password    *string
		Description *string
		// Config replaces the config; a pointer to "" clears it.
		Config          *string
		PortMappingFile string
	}

	// WIMSummary is a list entry.
	WIMSummary struct {
		Name string `json:"name" yaml:"name"`
		UUID string `json:"uuid" yaml:"uuid"`
	}

	// Wim manages /admin/v1/wim_accounts.
	Wim struct {
		client *Client
	}
)

// Create registers account and returns its id.
func (w *Wim) Create(ctx context.Context, account WIMAccount, wait bool) (string, error) {
	if account.Type == "" {
		return "", &ClientError{Err: ErrWIMTypeRequired}
	}

	body := map[string]any{
		"name":     account.Name,
		"wim_type": account.Type,
	}
	setIfNotEmpty(body, "wim_url", account.URL)
	setIfNotEmpty(body, "user", account.User)
	setIfNotEmpty(body, "password", account.Password)
	description := account.Description
	if description == "" {
		description = DefaultWIMDescription
	}
	body["description"] = description

	config, err := parseWIMConfig(account.Config)
	if err != nil {
		return "", err
	}
	if account.PortMappingFile != "" {
		if config == nil {
			config = map[string]any{}
		}
		if config[wimPortMappingKey], err = w.client.loadYAMLFile(account.PortMappingFile); err != nil {
			return "", err
		}
	}
	if len(config) > 0 {
		body["config"] = config
	}

	failure := "failed to create wim " + account.Name
	status, respBody, err := w.client.do(ctx, http.MethodPost, wimEndpoint, body)
	if err != nil {
		return "", &ClientError{Message: failure, Err: err}
	}
	if !slices.Contains(createdStatuses, status) {
		return "", &ClientError{Message: failure, Err: fmt.Errorf("unexpected status %d", status)}
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil || resp.ID == "" {
		return "", &ClientError{Message: "unexpected response from server - " + truncate(respBody)}
	}

	if wait {
		if err := w.client.waitForStatus(ctx, wimEndpoint, resp.ID, false); err != nil {
			return resp.ID, err
		}
	}
	return resp.ID, nil
}

// Update PUTs the changes in upd to the account named name.
func (w *Wim) Update(ctx context.Context, name string, upd WIMUpdate, wait bool) error {
	clearing := upd.Config != nil && *upd.Config == ""
	if clearing && upd.PortMappingFile != "" {
		return &ClientError{Err: ErrClearConfigWithPortMapping}
	}

	current, err := w.Get(ctx, name)
	if err != nil {
		return err
	}
	id := current.ID()

	body := map[string]any{}
	setIfSet(body, "name", upd.NewName)
	setIfSet(body, "wim_type", upd.Type)
	setIfSet(body, "wim_url", upd.URL)
	setIfSet(body, "user", upd.User)
	setIfSet(body, "password", upd.Password)
	setIfSet(body, "description", upd.Description)

	switch {
	case clearing:
		body["config"] = nil
	case upd.Config != nil || upd.PortMappingFile != "":
		var config map[string]any
		if upd.Config != nil {
			if config, err = parseWIMConfig(*upd.Config); err != nil {
				return err
			}
		}
		if upd.PortMappingFile != "" {
			if config == nil {
				config = map[string]any{}
			}
			if config[wimPortMappingKey], err = w.client.loadYAMLFile(upd.PortMappingFile); err != nil {
				return err
			}
		}
		body["config"] = config
	}

	failure := "failed to update wim " + name
	status, _, err := w.client.do(ctx, http.MethodPut, wimEndpoint+"/"+id, body)
	if err != nil {
		return &ClientError{Message: failure, Err: err}
	}
	if !slices.Contains(createdStatuses, status) {
		return &ClientError{Message: failure, Err: fmt.Errorf("unexpected status %d", status)}
	}

	if wait {
		return w.client.waitForStatus(ctx, wimEndpoint, id, false)
	}
	return nil
}

// Delete removes the account named (or with uuid) name.
func (w *Wim) Delete(ctx context.Context, name string, force, wait bool) (string, error) {
	id := name
	if !isUUID(name) {
		var err error
		if id, err = w.GetID(ctx, name); err != nil {
			return "", err
		}
	}
	return deleteResource(ctx, w.client, wimEndpoint, id, "failed to delete wim "+name, force, wait)
}

// List returns the name and uuid of every account matching the optional filter.
func (w *Wim) List(ctx context.Context, filter string) ([]WIMSummary, error) {
	list, err := w.client.listResources(ctx, wimEndpoint, filter)
	if err != nil {
		return nil, err
	}
	out := make([]WIMSummary, 0, len(list))
	for _, r := range list {
		out = append(out, WIMSummary{Name: r.Name(), UUID: r.ID()})
	}
	return out, nil
}

// GetID returns the uuid of the account named name.
func (w *Wim) GetID(ctx context.Context, name string) (string, error) {
	list, err := w.List(ctx, "")
	if err != nil {
		return "", err
	}
	for _, s := range list {
		if s.Name == name {
			return s.UUID, nil
		}
	}
	return "", &NotFoundError{Kind: wimKind, Name: name}
}

// Get returns the full account named (or with uuid) name.
func (w *Wim) Get(ctx context.Context, name string) (Resource, error) {
	id := name
	if !isUUID(name) {
		var err error
		if id, err = w.GetID(ctx, name); err != nil {
			return nil, err
		}
	}

	r, err := w.client.getResource(ctx, wimEndpoint+"/"+id)
	if err != nil {
		return nil, &ClientError{Message: "failed to get wim info", Err: err}
	}
	if r.ID() == "" {
		return nil, &ClientError{Message: fmt.Sprintf("failed to get wim info: %v", map[string]any(r))}
	}
	return r, nil
}

// parseWIMConfig decodes a YAML config document. An empty document yields nil.
func parseWIMConfig(doc string) (map[string]any, error) {
	if doc == "" {
		return nil, nil
	}
	var config map[string]any
	if err := yaml.Unmarshal([]byte(doc), &config); err != nil {
		return nil, &ClientError{Message: "invalid wim config", Err: err}
	}
	return config, nil
}

// loadYAMLFile reads and decodes a YAML file through the client filesystem.
func (c *Client) loadYAMLFile(path string) (any, error) {
	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return nil, &ClientError{Message: "failed to read " + path, Err: err}
	}
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, &ClientError{Message: "invalid YAML in " + path, Err: err}
	}
	return v, nil
}

func setIfNotEmpty(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}

func setIfSet(m map[string]any, key string, value *string) {
	if value != nil {
		m[key] = *value
	}
}
