/*
Copyright 2022

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package yahoo

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Record is one symbol's quote snapshot. It holds exactly the fields that were
// requested for the fetch that produced it.
type Record struct {
	ID     string
	fields map[Field]string
}

// Assemble pairs tokens with the requested fields by position. A count
// mismatch means the positions can no longer be trusted and no record is built.
func Assemble(tokens []string, requested []Field) (*Record, error) {
	if len(tokens) != len(requested) {
		return nil, fmt.Errorf("%w: %d tokens for %d requested fields", ErrFieldMismatch, len(tokens), len(requested))
	}

	rec := &Record{
		fields: make(map[Field]string, len(requested)),
	}
	for ii, f := range requested {
		rec.fields[f] = tokens[ii]
	}
	rec.ID = rec.fields[Symbol]
	return rec, nil
}

// NewRecord builds a record from an already keyed set of values. The map is
// copied.
func NewRecord(id string, values map[Field]string) *Record {
	rec := &Record{
		ID:     id,
		fields: make(map[Field]string, len(values)),
	}
	for f, v := range values {
		rec.fields[f] = v
	}
	return rec
}

// Value returns the raw value of f, or an empty string if f was not requested.
func (r *Record) Value(f Field) string {
	return r.fields[f]
}

// Lookup is like Value but reports whether f is present.
func (r *Record) Lookup(f Field) (string, bool) {
	v, ok := r.fields[f]
	return v, ok
}

// Fields returns the record's fields in registry order.
func (r *Record) Fields() []Field {
	fields := make([]Field, 0, len(r.fields))
	for f := range r.fields {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}

func (r *Record) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "QuoteId: %s", r.ID)
	for _, f := range r.Fields() {
		fmt.Fprintf(&sb, "\n\t%s=[%s]", f, r.fields[f])
	}
	return sb.String()
}

// MarshalJSON writes the record as {"symbol": ID, "fields": {NAME: value}}.
func (r *Record) MarshalJSON() ([]byte, error) {
	values := make(map[string]string, len(r.fields))
	for f, v := range r.fields {
		values[f.String()] = v
	}
	return json.Marshal(struct {
		Symbol string            `json:"symbol"`
		Fields map[string]string `json:"fields"`
	}{
		Symbol: r.ID,
		Fields: values,
	})
}
