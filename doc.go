// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the civicvote API server.

civicvote lets citizens vote on government proposals scoped to their
jurisdiction (national, regional, zone or subcity, woreda), submit feedback
and complaints, and follow implementation progress. Admins create proposals
within the scopes they were granted.

# Starting the Server

The server reads a .env file, then the environment, then CLI flags:

	DATABASE_URL=civicvote.db IDENTITY_SECRET=... go run .

Or with flags:

	go run . serve -p 3318 -t postgres -d "postgres://..."

# Commands

  - serve (default): run the API server
  - migrate: create the schema and exit
  - seed <file.yaml>: load admins and proposals
  - token --user u1 --role citizen --region Oromia: mint a development token

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - IDENTITY_SECRET (--identity-secret): HS256 key for identity tokens

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - IDENTITY_ISSUER: required iss claim
  - RATE_LIMIT_RPS, RATE_LIMIT_BURST: per-client budget (default 5/s, burst 10)
  - REDIS_ADDR: share rate limits across replicas
  - TRUSTED_PROXIES: proxy addresses or CIDRs whose X-Forwarded-For is believed
  - TRACING: none, stdout or otlp
  - METRICS_ENABLED: serve /metrics (default: true)

--debug switches logging to debug level with source locations.

# Architecture

  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, identity, rate limiting, error mapping
  - models: Domain, request and response types, validation
  - policy: Proposal visibility and creation permissions
  - store: Transactions over database/sql
  - validate: JSON schema checks for request bodies
  - auth: Identity token verification and ID generation
  - db: Connections and schema
  - ratelimit, metrics, tracing: operational concerns
  - seed: YAML seed files
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
