// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/danielhkuo/civicvote/middleware"
	"github.com/danielhkuo/civicvote/models"
	"github.com/danielhkuo/civicvote/store"
)

// caller returns the identity placed on the request by RequireIdentity.
// Handlers are only mounted behind it, so a missing identity is a wiring bug
// and is reported as unauthorized.
func caller(r *http.Request) (models.Identity, error) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		return models.Identity{}, models.ErrUnauthorized
	}
	return id, nil
}

// pageFrom reads ?page= and ?limit=
func pageFrom(r *http.Request) (store.Page, error) {
	var is []string
	parse := func(key string) int {
		raw := r.URL.Query().Get(key)
		if raw == "" {
			return 0
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			is = append(is, key+": must be a positive integer")
			return 0
		}
		return n
	}

	page, limit := parse("page"), parse("limit")
	if page > store.MaxPage {
		is = append(is, "page: must be at most "+strconv.Itoa(store.MaxPage))
	}
	if limit > store.MaxLimit {
		is = append(is, "limit: must be at most "+strconv.Itoa(store.MaxLimit))
	}
	if len(is) > 0 {
		return store.Page{}, &models.ValidationError{Issues: is}
	}
	return store.NewPage(page, limit), nil
}

// rejectionReason labels a failed vote for metrics
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, models.ErrAlreadyVoted):
		return "already_voted"
	case errors.Is(err, models.ErrNotEligible):
		return "not_eligible"
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	case errors.Is(err, models.ErrForbidden):
		return "forbidden"
	case errors.Is(err, models.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}
