// Package jsonx provides strict JSON request-body decoding shared by every
// HTTP handler: a single pass of shape validation before DTO-level field
// validation runs.
package jsonx

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// maxBodyBytes caps a request body read; Scribe log lines are short text,
// so a generous 1MB limit catches accidental huge uploads without tuning.
const maxBodyBytes = 1 << 20

var (
	ErrEmptyBody    = errors.New("jsonx: empty body")
	ErrTrailingJSON = errors.New("jsonx: trailing data after JSON value")
)

// ParseStrictJSONBody reads and strictly decodes a JSON request body into
// dst: no unknown fields, no trailing values, no empty body. It validates
// only shape; required-field and range checks are the caller's job (see
// go-playground/validator tags on the DTOs).
func ParseStrictJSONBody[T any](r *http.Request, dst *T) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return ErrEmptyBody
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return ErrTrailingJSON
	}
	return nil
}
