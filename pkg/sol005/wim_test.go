// SPDX-License-Identifier: MPL-2.0

package sol005

import (
	"net/http"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wimID = "9a8b7c6d-5e4f-4a3b-9c2d-1e0f9a8b7c6d"

var wimList = []Resource{
	{"_id": wimID, "name": "wan", "wim_type": "tapi"},
}

func portMappingFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	mapping := "- datacenter_id: dc1\n  device_id: sw1\n  device_interface_id: '1'\n"
	require.NoError(t, afero.WriteFile(fs, "/cfg/mapping.yaml", []byte(mapping), 0o644))
	return fs
}

func TestWim_Create(t *testing.T) {
	t.Parallel()

	nbi := newFakeNBI(t, map[string]http.HandlerFunc{
		"POST " + wimEndpoint: jsonHandler(http.StatusAccepted, map[string]any{"id": wimID}),
	})
	client := nbi.client(WithFs(portMappingFs(t)))

	id, err := client.WIM().Create(t.Context(), WIMAccount{
		Name:            "wan",
		Type:            "tapi",
		URL:             "http://wim:8080",
		User:            "u",
		Password:        "p",
		Config:          "{mapping_not_needed: true}",
		PortMappingFile: "/cfg/mapping.yaml",
	}, false)
	require.NoError(t, err)
	assert.Equal(t, wimID, id)

	body := nbi.requests()[0].Body
	assert.Equal(t, "wan", body["name"])
	assert.Equal(t, "tapi", body["wim_type"])
	assert.Equal(t, "http://wim:8080", body["wim_url"])
	assert.Equal(t, DefaultWIMDescription, body["description"])

	config, ok := body["config"].(map[string]any)
	require.True(t, ok, "config must be an object, got %T", body["config"])
	assert.Equal(t, true, config["mapping_not_needed"])
	mapping, ok := config[wimPortMappingKey].([]any)
	require.True(t, ok)
	require.Len(t, mapping, 1)
	assert.Equal(t, "dc1", mapping[0].(map[string]any)["datacenter_id"])
}

func TestWim_CreateRequiresType(t *testing.T) {
	t.Parallel()

	nbi := newFakeNBI(t, nil)
	_, err := nbi.client().WIM().Create(t.Context(), WIMAccount{Name: "wan"}, false)
	require.ErrorIs(t, err, ErrWIMTypeRequired)
	require.ErrorIs(t, err, ErrClient)
	assert.EqualError(t, err, "wim type not provided")
	assert.Empty(t, nbi.requests())
}

func TestWim_CreateFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantMsg string
	}{
		{"server error", jsonHandler(http.StatusBadRequest, map[string]any{"detail": "bad url"}), "failed to create wim wan - Error 400"},
		{"missing id", jsonHandler(http.StatusCreated, map[string]any{"name": "wan"}), "unexpected response from server - "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			nbi := newFakeNBI(t, map[string]http.HandlerFunc{"POST " + wimEndpoint: tt.handler})
			_, err := nbi.client().WIM().Create(t.Context(), WIMAccount{Name: "wan", Type: "tapi"}, false)
			require.ErrorIs(t, err, ErrClient)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestWim_CreateInvalidConfig(t *testing.T) {
	t.Parallel()

	nbi := newFakeNBI(t, nil)
	_, err := nbi.client().WIM().Create(t.Context(), WIMAccount{Name: "wan", Type: "tapi", Config: "a: [b"}, false)
	require.ErrorIs(t, err, ErrClient)
	assert.Empty(t, nbi.requests())
}

func TestWim_Update(t *testing.T) {
	t.Parallel()

	newName, config := "wan2", "{speed: fast}"
	nbi := newFakeNBI(t, map[string]http.HandlerFunc{
		"GET " + wimEndpoint:               jsonHandler(http.StatusOK, wimList),
		"GET " + wimEndpoint + "/" + wimID: jsonHandler(http.StatusOK, wimList[0]),
		"PUT " + wimEndpoint + "/" + wimID: statusHandler(http.StatusNoContent),
	})

	err := nbi.client().WIM().Update(t.Context(), "wan", WIMUpdate{NewName: &newName, Config: &config}, false)
	require.NoError(t, err)

	reqs := nbi.requests()
	put := reqs[len(reqs)-1]
	assert.Equal(t, http.MethodPut, put.Method)
	assert.Equal(t, map[string]any{"name": "wan2", "config": map[string]any{"speed": "fast"}}, put.Body)
}

func TestWim_UpdateClearsConfig(t *testing.T) {
	t.Parallel()

	empty := ""
	nbi := newFakeNBI(t, map[string]http.HandlerFunc{
		"GET " + wimEndpoint:               jsonHandler(http.StatusOK, wimList),
		"GET " + wimEndpoint + "/" + wimID: jsonHandler(http.StatusOK, wimList[0]),
		"PUT " + wimEndpoint + "/" + wimID: statusHandler(http.StatusOK),
	})

	require.NoError(t, nbi.client().WIM().Update(t.Context(), wimID, WIMUpdate{Config: &empty}, false))

	reqs := nbi.requests()
	put := reqs[len(reqs)-1]
	value, present := put.Body["config"]
	assert.True(t, present)
	assert.Nil(t, value)
}

func TestWim_UpdateClearConfigWithPortMapping(t *testing.T) {
	t.Parallel()

	empty := ""
	nbi := newFakeNBI(t, nil)
	err := nbi.client().WIM().Update(t.Context(), "wan", WIMUpdate{Config: &empty, PortMappingFile: "/cfg/mapping.yaml"}, false)
	require.ErrorIs(t, err, ErrClearConfigWithPortMapping)
	require.ErrorIs(t, err, ErrClient)
	assert.EqualError(t, err, "clearing config is incompatible with updating SDN info")
	assert.Empty(t, nbi.requests(), "no request may be sent")
}

func TestWim_ListAndGetID(t *testing.T) {
	t.Parallel()

	nbi := newFakeNBI(t, map[string]http.HandlerFunc{
		"GET " + wimEndpoint: jsonHandler(http.StatusOK, wimList),
	})
	wim := nbi.client().WIM()

	list, err := wim.List(t.Context(), "")
	require.NoError(t, err)
	assert.Equal(t, []WIMSummary{{Name: "wan", UUID: wimID}}, list)

	id, err := wim.GetID(t.Context(), "wan")
	require.NoError(t, err)
	assert.Equal(t, wimID, id)

	_, err = wim.GetID(t.Context(), "lan")
	require.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "wim lan not found")
}

func TestWim_Get(t *testing.T) {
	t.Parallel()

	nbi := newFakeNBI(t, map[string]http.HandlerFunc{
		"GET " + wimEndpoint:               jsonHandler(http.StatusOK, wimList),
		"GET " + wimEndpoint + "/" + wimID: jsonHandler(http.StatusOK, wimList[0]),
	})

	r, err := nbi.client().WIM().Get(t.Context(), wimID)
	require.NoError(t, err)
	assert.Equal(t, "tapi", r.String("wim_type"))
	// A uuid is used directly, without listing.
	assert.Len(t, nbi.requests(), 1)
}

func TestWim_GetRequiresID(t *testing.T) {
	t.Parallel()

	nbi := newFakeNBI(t, map[string]http.HandlerFunc{
		"GET " + wimEndpoint + "/" + wimID: jsonHandler(http.StatusOK, map[string]any{"name": "wan"}),
	})

	_, err := nbi.client().WIM().Get(t.Context(), wimID)
	require.ErrorIs(t, err, ErrClient)
	assert.Contains(t, err.Error(), "failed to get wim info")
}

func TestWim_DeleteByUUIDForced(t *testing.T) {
	t.Parallel()

	nbi := newFakeNBI(t, map[string]http.HandlerFunc{
		"DELETE " + wimEndpoint + "/" + wimID: statusHandler(http.StatusNoContent),
	})

	msg, err := nbi.client().WIM().Delete(t.Context(), wimID, true, false)
	require.NoError(t, err)
	assert.Equal(t, MessageDeleted, msg)

	reqs := nbi.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "FORCE=True", reqs[0].Query)
}
