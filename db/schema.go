// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Tables lists the schema's tables in dependency order.
var Tables = []string{"proposals", "votes", "admins", "feedback", "complaints", "implementations"}

// The DDL is shared by PostgreSQL and SQLite, so it sticks to portable
// types and CURRENT_TIMESTAMP defaults.
const schema = `
-- Proposals
CREATE TABLE IF NOT EXISTS proposals (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_by TEXT NOT NULL,
    scope TEXT NOT NULL CHECK (scope IN ('national', 'regional', 'zoneOrSubcity', 'woreda')),
    target TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL CHECK (category IN ('infrastructure', 'budget', 'policy', 'development', 'other')),
    starts_at TIMESTAMP NOT NULL,
    ends_at TIMESTAMP NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
    deleted_at TIMESTAMP,
    deleted_by TEXT,
    total_votes INTEGER NOT NULL DEFAULT 0,
    yes_votes INTEGER NOT NULL DEFAULT 0,
    no_votes INTEGER NOT NULL DEFAULT 0,
    abstain_votes INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_proposals_listing ON proposals(is_active, is_deleted, ends_at);
CREATE INDEX IF NOT EXISTS idx_proposals_scope_target ON proposals(scope, target);
CREATE INDEX IF NOT EXISTS idx_proposals_created_by ON proposals(created_by);

-- Votes: at most one per (user, proposal)
CREATE TABLE IF NOT EXISTS votes (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    proposal_id TEXT NOT NULL REFERENCES proposals(id),
    choice TEXT NOT NULL CHECK (choice IN ('yes', 'no', 'abstain')),
    voted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (user_id, proposal_id)
);

CREATE INDEX IF NOT EXISTS idx_votes_proposal_id ON votes(proposal_id);

-- Admin records
CREATE TABLE IF NOT EXISTS admins (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL UNIQUE,
    assigned_region TEXT NOT NULL DEFAULT '',
    assigned_zone_or_subcity TEXT NOT NULL DEFAULT '',
    assigned_woreda TEXT NOT NULL DEFAULT '',
    job_description TEXT NOT NULL DEFAULT '',
    contact_info TEXT NOT NULL DEFAULT '',
    permissions TEXT NOT NULL DEFAULT '[]',
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Feedback
CREATE TABLE IF NOT EXISTS feedback (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    title TEXT NOT NULL,
    message TEXT NOT NULL,
    category TEXT NOT NULL,
    priority TEXT NOT NULL DEFAULT 'medium' CHECK (priority IN ('low', 'medium', 'high', 'urgent')),
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'seen')),
    region TEXT NOT NULL DEFAULT '',
    woreda TEXT NOT NULL DEFAULT '',
    proposal_id TEXT REFERENCES proposals(id),
    submitted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    is_deleted BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_feedback_user_id ON feedback(user_id);

-- Complaints addressed to an admin
CREATE TABLE IF NOT EXISTS complaints (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    title TEXT NOT NULL,
    message TEXT NOT NULL,
    priority TEXT NOT NULL DEFAULT 'medium',
    to_admin TEXT NOT NULL REFERENCES admins(id),
    region TEXT NOT NULL DEFAULT '',
    zone_or_subcity TEXT NOT NULL DEFAULT '',
    woreda TEXT NOT NULL DEFAULT '',
    submitted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_complaints_to_admin ON complaints(to_admin);

-- Implementation progress
CREATE TABLE IF NOT EXISTS implementations (
    id TEXT PRIMARY KEY,
    proposal_id TEXT NOT NULL REFERENCES proposals(id),
    status TEXT NOT NULL DEFAULT 'not_started' CHECK (status IN ('not_started', 'in_progress', 'completed', 'cancelled')),
    progress_percentage INTEGER NOT NULL DEFAULT 0 CHECK (progress_percentage >= 0 AND progress_percentage <= 100),
    budget_allocated NUMERIC(15, 2) NOT NULL DEFAULT 0,
    budget_spent NUMERIC(15, 2) NOT NULL DEFAULT 0,
    start_date TIMESTAMP NOT NULL,
    expected_completion TIMESTAMP NOT NULL,
    actual_completion TIMESTAMP,
    notes TEXT NOT NULL DEFAULT '',
    updated_by TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    is_deleted BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_implementations_proposal_id ON implementations(proposal_id);
`
