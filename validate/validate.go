// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/danielhkuo/civicvote/models"
)

// MaxBodyBytes caps request bodies read by Decode.
const MaxBodyBytes = 1 << 20

// Validator holds the compiled request body schemas.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// New compiles every request schema.
func New() (*Validator, error) {
	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(schemas))}
	for name, src := range schemas {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		c.AssertFormat = true

		url := fmt.Sprintf("https://civicvote.local/schemas/%s.schema.json", name)
		if err := c.AddResource(url, strings.NewReader(src)); err != nil {
			return nil, fmt.Errorf("schema %s load failed: %w", name, err)
		}
		compiled, err := c.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("schema %s compile failed: %w", name, err)
		}
		v.schemas[name] = compiled
	}
	return v, nil
}

// MustNew is New for package-level setup; it panics if a schema does not
// compile.
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

// Decode reads the request body, checks it against the named schema and
// unmarshals it into dst. Problems are reported as *models.ValidationError.
func (v *Validator) Decode(r *http.Request, name string, dst any) error {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	if len(body) > MaxBodyBytes {
		return &models.ValidationError{Issues: []string{"request body too large"}}
	}
	return v.DecodeBytes(body, name, dst)
}

// DecodeBytes is Decode for a body that has already been read.
func (v *Validator) DecodeBytes(body []byte, name string, dst any) error {
	schema, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return &models.ValidationError{Issues: []string{"invalid JSON"}}
	}

	if err := schema.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return &models.ValidationError{Issues: issues(verr)}
		}
		return fmt.Errorf("schema %s validation failed: %w", name, err)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return &models.ValidationError{Issues: []string{"invalid JSON: " + err.Error()}}
	}
	return nil
}

// issues flattens a validation error tree into one message per failing
// leaf, in a stable order.
func issues(verr *jsonschema.ValidationError) []string {
	var out []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			field := strings.TrimPrefix(e.InstanceLocation, "/")
			if field == "" {
				field = "body"
			}
			out = append(out, field+": "+e.Message)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(verr)
	sort.Strings(out)
	return out
}
