// SPDX-License-Identifier: MPL-2.0

package sol005

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Resource is a JSON object returned by the server. Fields are kept as
// decoded so that show commands can print everything the server sends.
type Resource map[string]any

// ID returns the "_id" field, or "" when absent.
func (r Resource) ID() string { return r.String("_id") }

// Name returns the "name" field, or "" when absent.
func (r Resource) Name() string { return r.String("name") }

// String returns the value at a dotted path (e.g. "_admin.operationalState")
// as a string. Missing keys and non-object intermediates yield "".
func (r Resource) String(path string) string {
	v, ok := r.Lookup(path)
	if !ok || v == nil {
		return ""
	}
	if s, isString := v.(string); isString {
		return s
	}
	return fmt.Sprint(v)
}

// Lookup walks a dotted path through nested objects.
func (r Resource) Lookup(path string) (any, bool) {
	var cur any = map[string]any(r)
	for part := range strings.SplitSeq(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = obj[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// isUUID reports whether s is a UUID, which the server uses as "_id".
func isUUID(s string) bool {
	return uuid.Validate(s) == nil
}
