// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the osm command-line interface: package scaffolding,
// validation and building, SDN controller and WIM account management, and
// configuration inspection.
package cmd
