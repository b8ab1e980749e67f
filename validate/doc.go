// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package validate checks request bodies against JSON Schemas (draft 2020-12)
before they are decoded into request types.

	v := validate.MustNew()
	var req models.CastVoteRequest
	if err := v.Decode(r, validate.CastVote, &req); err != nil {
		// *models.ValidationError listing every failing field
	}

Schemas cover shape, types and enums. Handlers still call the request
type's Validate method for length limits and cross-field rules.
*/
package validate
