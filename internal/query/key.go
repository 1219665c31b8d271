// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

package query

import (
	"sort"
	"strings"
)

// Key identifies a cache entry: an operation name plus its parameters.
//
// Two keys are equal iff the operation and every parameter value match.
// Parameter order is irrelevant; the canonical form sorts parameter
// names, so maps built in any order produce the same entry.
type Key struct {
	Op     string
	Params map[string]string
}

// NewKey builds a key for an operation with optional parameters.
func NewKey(op string, params map[string]string) Key {
	return Key{Op: op, Params: params}
}

// keyEscaper protects the canonical form's delimiters inside parameter
// names and values, so free-text parameters (search queries) cannot
// collide two distinct keys into one entry.
var keyEscaper = strings.NewReplacer(`\`, `\\`, "|", `\|`, "=", `\=`)

// canonical renders the key's stable string form: the operation name
// followed by name=value pairs in sorted name order. Operation names
// are plain identifiers and are written unescaped.
func (k Key) canonical() string {
	if len(k.Params) == 0 {
		return k.Op
	}

	names := make([]string, 0, len(k.Params))
	for name := range k.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(k.Op)
	for _, name := range names {
		b.WriteByte('|')
		b.WriteString(keyEscaper.Replace(name))
		b.WriteByte('=')
		b.WriteString(keyEscaper.Replace(k.Params[name]))
	}
	return b.String()
}

// String returns the canonical form, suitable for logging.
func (k Key) String() string {
	return k.canonical()
}
