// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
)

// Unify compiles data as CUE source, unifies it with the schema definition at
// definition (e.g. "#Config") and validates the result.
//
// The returned value is the unified value, ready for Decode.
func Unify(schema, data []byte, definition string, opts ...Option) (cue.Value, error) {
	o, filename := resolveOptions(opts)
	if err := checkFileSize(data, o.maxFileSize, filename); err != nil {
		return cue.Value{}, err
	}

	ctx := cuecontext.New()
	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if userValue.Err() != nil {
		return cue.Value{}, FormatError(userValue.Err(), filename)
	}

	return unifyWithSchema(ctx, schema, userValue, definition, o, filename)
}

// UnifyYAML is Unify for YAML documents. The YAML is converted to CUE with
// the CUE YAML encoder so that error positions point back into the YAML file.
func UnifyYAML(schema, data []byte, definition string, opts ...Option) (cue.Value, error) {
	o, filename := resolveOptions(opts)
	if err := checkFileSize(data, o.maxFileSize, filename); err != nil {
		return cue.Value{}, err
	}

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return cue.Value{}, FormatError(err, filename)
	}

	ctx := cuecontext.New()
	userValue := ctx.BuildFile(file, cue.Filename(filename))
	if userValue.Err() != nil {
		return cue.Value{}, FormatError(userValue.Err(), filename)
	}

	return unifyWithSchema(ctx, schema, userValue, definition, o, filename)
}

// Decode decodes a unified value into T, formatting errors with filename.
func Decode[T any](v cue.Value, filename string) (T, error) {
	var result T
	if err := v.Decode(&result); err != nil {
		return result, FormatError(err, filename)
	}
	return result, nil
}

func resolveOptions(opts []Option) (options, string) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	filename := o.filename
	if filename == "" {
		filename = "<input>"
	}
	return o, filename
}

func unifyWithSchema(ctx *cue.Context, schema []byte, userValue cue.Value, definition string, o options, filename string) (cue.Value, error) {
	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	schemaRoot := schemaValue.LookupPath(cue.ParsePath(definition))
	if schemaRoot.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", definition, schemaRoot.Err())
	}

	unified := schemaRoot.Unify(userValue)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return cue.Value{}, FormatError(err, filename)
	}

	return unified, nil
}
