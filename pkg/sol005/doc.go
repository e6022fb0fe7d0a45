// SPDX-License-Identifier: MPL-2.0

// Package sol005 is a client for the OSM northbound REST API.
//
// It covers the administrative resources the CLI manages: SDN controllers
// (/admin/v1/sdns) and WIM accounts (/admin/v1/wim_accounts), plus token
// acquisition and the server version. Every call takes a context; create,
// update and delete optionally block until the resource settles.
package sol005
