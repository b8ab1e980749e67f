// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connecting

Open selects the driver from the configured database type:

	conn, err := db.Open(ctx, db.TypePostgres, "postgres://...")
	conn, err := db.Open(ctx, db.TypeSQLite, "/var/lib/civicvote/civic.db")

PostgreSQL uses lib/pq. SQLite uses the cgo-free modernc.org/sqlite driver
with foreign keys on and a single connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - proposals: proposal metadata, scope/target, soft-delete flag and the
    denormalized vote counters
  - votes: one row per (user_id, proposal_id), enforced by a UNIQUE
    constraint
  - admins: admin records with the scopes each admin may create
  - feedback: citizen feedback with a pending/seen status
  - complaints: complaints addressed to one admin record
  - implementations: implementation progress per proposal

# Relationships

	proposals 1──* votes
	proposals 1──* feedback
	proposals 1──* implementations
	admins    1──* complaints

# Constraint Errors

IsUniqueViolation recognizes unique-constraint failures from both drivers
so callers can turn a lost insert race into a domain error.
*/
package db
