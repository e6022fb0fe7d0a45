// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE validation utilities.
//
// Both the configuration loader and the descriptor validator follow the same
// flow:
//
//  1. Compile the embedded schema
//  2. Compile user data (CUE source or YAML) and unify it with a schema definition
//  3. Validate, reporting errors with JSON-path prefixes
//
// # Usage
//
//	//go:embed descriptor_schema.cue
//	var schemaBytes []byte
//
//	_, err := cueutil.UnifyYAML(schemaBytes, data, "#VNFD",
//	    cueutil.WithFilename("hackfest_vnfd.yaml"),
//	    cueutil.WithConcrete(true),
//	)
//	if err != nil {
//	    return err // Error includes the CUE path of the offending field
//	}
package cueutil
