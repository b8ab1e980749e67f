// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/danielhkuo/civicvote/auth"
	"github.com/danielhkuo/civicvote/models"
	"github.com/danielhkuo/civicvote/policy"
)

const proposalColumns = `id, title, description, created_by, scope, target, category,
	starts_at, ends_at, is_active, is_deleted, deleted_at, deleted_by,
	total_votes, yes_votes, no_votes, abstain_votes, created_at, updated_at`

func scanProposal(row rowScanner) (models.Proposal, error) {
	var p models.Proposal
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.CreatedBy, &p.Scope, &p.Target, &p.Category,
		&p.StartsAt, &p.EndsAt, &p.IsActive, &p.IsDeleted, &p.DeletedAt, &p.DeletedBy,
		&p.TotalVotes, &p.YesVotes, &p.NoVotes, &p.AbstainVotes, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func scanProposals(rows *sql.Rows) ([]models.Proposal, error) {
	defer rows.Close()

	proposals := []models.Proposal{}
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan proposal: %w", err)
		}
		proposals = append(proposals, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate proposals: %w", err)
	}
	return proposals, nil
}

// loadProposal reads a proposal including soft-deleted ones.
func loadProposal(ctx context.Context, q querier, id string) (models.Proposal, error) {
	p, err := scanProposal(q.QueryRowContext(ctx,
		`SELECT `+proposalColumns+` FROM proposals WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Proposal{}, fmt.Errorf("proposal %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Proposal{}, fmt.Errorf("failed to load proposal: %w", err)
	}
	return p, nil
}

// ListEligibleProposals returns the proposals a citizen with jurisdiction j
// may see at time now, newest first.
func (s *Store) ListEligibleProposals(ctx context.Context, j models.Jurisdiction, now time.Time) ([]models.Proposal, error) {
	ctx, span := startSpan(ctx, "store.ListEligibleProposals")
	defer span.End()

	where, args := policy.Filter(j, now.UTC(), 1)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+proposalColumns+` FROM proposals WHERE `+where+` ORDER BY created_at DESC, id DESC`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query proposals: %w", err)
	}
	proposals, err := scanProposals(rows)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("proposals.count", len(proposals)))
	return proposals, nil
}

// GetProposal returns a proposal that has not been deleted.
func (s *Store) GetProposal(ctx context.Context, id string) (models.Proposal, error) {
	ctx, span := startSpan(ctx, "store.GetProposal", attribute.String("proposal.id", id))
	defer span.End()

	p, err := loadProposal(ctx, s.db, id)
	if err != nil {
		return models.Proposal{}, err
	}
	if p.IsDeleted {
		return models.Proposal{}, fmt.Errorf("proposal %s: %w", id, models.ErrNotFound)
	}
	return p, nil
}

// ListAdminProposals returns the non-deleted proposals an admin manages:
// their own, or all of them for a superadmin.
func (s *Store) ListAdminProposals(ctx context.Context, id models.Identity) ([]models.Proposal, error) {
	if !id.Role.HasAdminPrivilege() {
		return nil, models.ErrForbidden
	}

	ctx, span := startSpan(ctx, "store.ListAdminProposals")
	defer span.End()

	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE is_deleted = FALSE`
	var args []any
	if id.Role != models.RoleSuperadmin {
		query += ` AND created_by = $1`
		args = append(args, id.UserID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query proposals: %w", err)
	}
	return scanProposals(rows)
}

// allowedScopes reads the permission list of an active admin record.
func allowedScopes(ctx context.Context, q querier, userID string) ([]models.Scope, error) {
	var raw string
	err := q.QueryRowContext(ctx, `
		SELECT permissions FROM admins
		WHERE user_id = $1 AND is_active = TRUE AND is_deleted = FALSE
	`, userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no active admin record: %w", models.ErrForbidden)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load admin permissions: %w", err)
	}

	var scopes []models.Scope
	if err := json.Unmarshal([]byte(raw), &scopes); err != nil {
		return nil, fmt.Errorf("failed to decode admin permissions: %w", err)
	}
	return scopes, nil
}

// gate runs the proposal-creation permission check for id and scope.
// Superadmins skip the admin record lookup.
func gate(ctx context.Context, q querier, id models.Identity, scope models.Scope) error {
	if !id.Role.HasAdminPrivilege() {
		return fmt.Errorf("admin privilege required: %w", models.ErrForbidden)
	}

	var allowed []models.Scope
	if id.Role != models.RoleSuperadmin {
		var err error
		if allowed, err = allowedScopes(ctx, q, id.UserID); err != nil {
			return err
		}
	}

	if !policy.CanCreateProposal(id.Role, scope, allowed) {
		return fmt.Errorf("scope %s not permitted: %w", scope, models.ErrForbidden)
	}
	return nil
}

// CreateProposal inserts a proposal after the permission gate and draft
// validation pass.
func (s *Store) CreateProposal(ctx context.Context, id models.Identity, draft models.ProposalDraft) (models.Proposal, error) {
	var p models.Proposal
	err := s.withTx(ctx, "store.CreateProposal", func(ctx context.Context, tx *sql.Tx) error {
		if err := gate(ctx, tx, id, draft.Scope); err != nil {
			return err
		}
		if err := draft.Validate(); err != nil {
			return err
		}

		now := s.clock()
		p = models.Proposal{
			ID:          auth.GenerateID(),
			Title:       draft.Title,
			Description: draft.Description,
			CreatedBy:   id.UserID,
			Scope:       draft.Scope,
			Target:      draft.Target,
			Category:    draft.Category,
			StartsAt:    draft.StartsAt.UTC(),
			EndsAt:      draft.EndsAt.UTC(),
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO proposals (id, title, description, created_by, scope, target, category,
				starts_at, ends_at, is_active, is_deleted, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE, FALSE, $10, $11)
		`, p.ID, p.Title, p.Description, p.CreatedBy, p.Scope, p.Target, p.Category,
			p.StartsAt, p.EndsAt, p.CreatedAt, p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert proposal: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Proposal{}, err
	}
	return p, nil
}

// manageable loads a non-deleted proposal that id is allowed to manage.
func manageable(ctx context.Context, q querier, id models.Identity, proposalID string) (models.Proposal, error) {
	p, err := loadProposal(ctx, q, proposalID)
	if err != nil {
		return models.Proposal{}, err
	}
	if p.IsDeleted {
		return models.Proposal{}, fmt.Errorf("proposal %s: %w", proposalID, models.ErrNotFound)
	}
	if !policy.CanManageProposal(id, p) {
		return models.Proposal{}, fmt.Errorf("only the creator may manage this proposal: %w", models.ErrForbidden)
	}
	return p, nil
}

// UpdateProposal replaces a proposal's editable fields. Changing the scope
// re-runs the permission gate. Vote counters are untouched.
func (s *Store) UpdateProposal(ctx context.Context, id models.Identity, proposalID string, draft models.ProposalDraft) (models.Proposal, error) {
	var p models.Proposal
	err := s.withTx(ctx, "store.UpdateProposal", func(ctx context.Context, tx *sql.Tx) error {
		var err error
		if p, err = manageable(ctx, tx, id, proposalID); err != nil {
			return err
		}
		if draft.Scope != p.Scope {
			if err := gate(ctx, tx, id, draft.Scope); err != nil {
				return err
			}
		}
		if err := draft.Validate(); err != nil {
			return err
		}

		p.Title = draft.Title
		p.Description = draft.Description
		p.Category = draft.Category
		p.Scope = draft.Scope
		p.Target = draft.Target
		p.StartsAt = draft.StartsAt.UTC()
		p.EndsAt = draft.EndsAt.UTC()
		p.UpdatedAt = s.clock()

		_, err = tx.ExecContext(ctx, `
			UPDATE proposals
			SET title = $1, description = $2, category = $3, scope = $4, target = $5,
				starts_at = $6, ends_at = $7, updated_at = $8
			WHERE id = $9
		`, p.Title, p.Description, p.Category, p.Scope, p.Target,
			p.StartsAt, p.EndsAt, p.UpdatedAt, p.ID)
		if err != nil {
			return fmt.Errorf("failed to update proposal: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Proposal{}, err
	}
	return p, nil
}

// SetProposalActive toggles whether citizens can see a proposal.
func (s *Store) SetProposalActive(ctx context.Context, id models.Identity, proposalID string, active bool) (models.Proposal, error) {
	var p models.Proposal
	err := s.withTx(ctx, "store.SetProposalActive", func(ctx context.Context, tx *sql.Tx) error {
		var err error
		if p, err = manageable(ctx, tx, id, proposalID); err != nil {
			return err
		}

		p.IsActive = active
		p.UpdatedAt = s.clock()
		_, err = tx.ExecContext(ctx,
			`UPDATE proposals SET is_active = $1, updated_at = $2 WHERE id = $3`,
			p.IsActive, p.UpdatedAt, p.ID)
		if err != nil {
			return fmt.Errorf("failed to update proposal: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Proposal{}, err
	}
	return p, nil
}

// DeleteProposal soft-deletes a proposal. Rows are never removed so
// existing votes keep their reference.
func (s *Store) DeleteProposal(ctx context.Context, id models.Identity, proposalID string) error {
	return s.withTx(ctx, "store.DeleteProposal", func(ctx context.Context, tx *sql.Tx) error {
		if _, err := manageable(ctx, tx, id, proposalID); err != nil {
			return err
		}

		now := s.clock()
		_, err := tx.ExecContext(ctx, `
			UPDATE proposals
			SET is_deleted = TRUE, is_active = FALSE, deleted_at = $1, deleted_by = $2, updated_at = $3
			WHERE id = $4
		`, now, id.UserID, now, proposalID)
		if err != nil {
			return fmt.Errorf("failed to delete proposal: %w", err)
		}
		return nil
	})
}
