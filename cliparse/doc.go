// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a validated Config:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Commands built with cobra register the same flags and resolve them after
parsing:

	cliparse.AddFlags(cmd.Flags())
	cfg, err := cliparse.Resolve(cmd.Flags())

# Precedence

From lowest to highest: struct defaults, the dotenv file (--env-file,
default .env), process environment, explicitly set flags.

# Settings

	flag               env                default
	-p, --port         PORT               3318
	-d, --database-url DATABASE_URL       (required)
	-t, --database-type DATABASE_TYPE     sqlite
	--identity-secret  IDENTITY_SECRET    (required)
	--identity-issuer  IDENTITY_ISSUER
	--rate-limit-rps   RATE_LIMIT_RPS     5
	--rate-limit-burst RATE_LIMIT_BURST   10
	--redis-addr       REDIS_ADDR         (in-memory limiter when empty)
	--trusted-proxies  TRUSTED_PROXIES    (comma separated; none trusted when empty)
	--tracing          TRACING            none
	--metrics          METRICS_ENABLED    true

Validate checks everything the server needs; ValidateDatabase checks only
the database settings, for commands like migrate that never verify tokens.
*/
package cliparse
