// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"strings"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrAlreadyVoted = errors.New("already voted on this proposal")
	ErrNotEligible  = errors.New("not eligible to vote on this proposal")
	ErrValidation   = errors.New("validation failed")
)

// ValidationError lists every problem found in a request.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Issues, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// issues collects validation problems; err returns nil when there are none.
type issues []string

func (is *issues) add(msg string) {
	*is = append(*is, msg)
}

func (is issues) err() error {
	if len(is) == 0 {
		return nil
	}
	return &ValidationError{Issues: is}
}
