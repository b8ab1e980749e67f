// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth verifies identity tokens and generates row identifiers.

# Identity Tokens

The identity provider authenticates citizens and admins and hands the
client a JWT signed with HS256. The server never authenticates anyone
itself; it only reads:

  - sub: user ID
  - role: citizen (or user), admin, superadmin
  - region, zone_or_subcity, woreda: verified jurisdiction, all optional

Verify a bearer token:

	v := auth.NewVerifier(cfg.IdentitySecret, cfg.IdentityIssuer)
	identity, err := v.Verify(token)

Tokens without an expiry, with an unknown role, or signed with any other
algorithm are rejected with ErrInvalidToken.

IssueToken mints tokens for local development and tests:

	token, err := auth.IssueToken(secret, issuer, identity, time.Hour)

# Identifiers

GenerateID returns a random UUID string for new rows.
*/
package auth
