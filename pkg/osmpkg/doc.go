// SPDX-License-Identifier: MPL-2.0

// Package osmpkg scaffolds, validates and builds OSM descriptor packages.
//
// A package is a directory named "<name>_<type>" (type is ns, vnf or nst)
// holding one YAML descriptor plus auxiliary assets. Tool.Create lays out a new
// package, Tool.Validate checks descriptors against the embedded CUE schema and
// Tool.Build turns a package directory into "<name>_<type>.tar.gz":
//
//	validate -> resolve charms -> assemble scratch tree -> checksum -> archive -> relocate
//
// The scratch tree lives in "<package>/tmp" and is removed on every exit path.
// A build is synchronous; running two builds of the same package at once is
// not supported.
package osmpkg
