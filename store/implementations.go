// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/civicvote/auth"
	"github.com/danielhkuo/civicvote/models"
)

const implementationColumns = `id, proposal_id, status, progress_percentage, budget_allocated,
	budget_spent, start_date, expected_completion, actual_completion, notes, updated_by, updated_at`

func scanImplementation(row rowScanner) (models.Implementation, error) {
	var im models.Implementation
	err := row.Scan(&im.ID, &im.ProposalID, &im.Status, &im.ProgressPercentage, &im.BudgetAllocated,
		&im.BudgetSpent, &im.StartDate, &im.ExpectedCompletion, &im.ActualCompletion, &im.Notes,
		&im.UpdatedBy, &im.UpdatedAt)
	return im, err
}

// applyImplementation copies a validated request onto im, deriving the
// status from progress.
func applyImplementation(im *models.Implementation, req models.ImplementationRequest, by string, now time.Time) {
	im.Status = models.EffectiveStatus(req.Status, req.ProgressPercentage)
	im.ProgressPercentage = req.ProgressPercentage
	im.BudgetAllocated = req.BudgetAllocated.Round(2)
	im.BudgetSpent = req.BudgetSpent.Round(2)
	im.StartDate = req.StartDate.UTC()
	im.ExpectedCompletion = req.ExpectedCompletion.UTC()
	im.ActualCompletion = nil
	if req.ActualCompletion != nil {
		t := req.ActualCompletion.UTC()
		im.ActualCompletion = &t
	}
	if im.Status == models.ImplementationCompleted && im.ActualCompletion == nil {
		im.ActualCompletion = &now
	}
	im.Notes = req.Notes
	im.UpdatedBy = by
	im.UpdatedAt = now
}

// CreateImplementation records implementation progress for a proposal the
// caller manages.
func (s *Store) CreateImplementation(ctx context.Context, id models.Identity, req models.ImplementationRequest) (models.Implementation, error) {
	if err := req.Validate(); err != nil {
		return models.Implementation{}, err
	}

	var im models.Implementation
	err := s.withTx(ctx, "store.CreateImplementation", func(ctx context.Context, tx *sql.Tx) error {
		if _, err := manageable(ctx, tx, id, req.ProposalID); err != nil {
			return err
		}

		im.ID = auth.GenerateID()
		im.ProposalID = req.ProposalID
		applyImplementation(&im, req, id.UserID, s.clock())

		_, err := tx.ExecContext(ctx, `
			INSERT INTO implementations (id, proposal_id, status, progress_percentage, budget_allocated,
				budget_spent, start_date, expected_completion, actual_completion, notes, updated_by, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, im.ID, im.ProposalID, im.Status, im.ProgressPercentage, im.BudgetAllocated,
			im.BudgetSpent, im.StartDate, im.ExpectedCompletion, im.ActualCompletion, im.Notes,
			im.UpdatedBy, im.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert implementation: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Implementation{}, err
	}
	return im, nil
}

// UpdateImplementation replaces a progress record. The proposal it belongs
// to cannot change.
func (s *Store) UpdateImplementation(ctx context.Context, id models.Identity, implementationID string, req models.ImplementationRequest) (models.Implementation, error) {
	var im models.Implementation
	err := s.withTx(ctx, "store.UpdateImplementation", func(ctx context.Context, tx *sql.Tx) error {
		var err error
		im, err = scanImplementation(tx.QueryRowContext(ctx,
			`SELECT `+implementationColumns+` FROM implementations WHERE id = $1 AND is_deleted = FALSE`,
			implementationID))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("implementation %s: %w", implementationID, models.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to load implementation: %w", err)
		}

		req.ProposalID = im.ProposalID
		if err := req.Validate(); err != nil {
			return err
		}
		if _, err := manageable(ctx, tx, id, im.ProposalID); err != nil {
			return err
		}

		applyImplementation(&im, req, id.UserID, s.clock())
		_, err = tx.ExecContext(ctx, `
			UPDATE implementations
			SET status = $1, progress_percentage = $2, budget_allocated = $3, budget_spent = $4,
				start_date = $5, expected_completion = $6, actual_completion = $7, notes = $8,
				updated_by = $9, updated_at = $10
			WHERE id = $11
		`, im.Status, im.ProgressPercentage, im.BudgetAllocated, im.BudgetSpent,
			im.StartDate, im.ExpectedCompletion, im.ActualCompletion, im.Notes,
			im.UpdatedBy, im.UpdatedAt, im.ID)
		if err != nil {
			return fmt.Errorf("failed to update implementation: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Implementation{}, err
	}
	return im, nil
}

// ListImplementations returns a proposal's progress records, most recently
// updated first.
func (s *Store) ListImplementations(ctx context.Context, proposalID string) ([]models.Implementation, error) {
	ctx, span := startSpan(ctx, "store.ListImplementations")
	defer span.End()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+implementationColumns+` FROM implementations
		WHERE proposal_id = $1 AND is_deleted = FALSE
		ORDER BY updated_at DESC, id DESC`, proposalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query implementations: %w", err)
	}
	defer rows.Close()

	items := []models.Implementation{}
	for rows.Next() {
		im, err := scanImplementation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan implementation: %w", err)
		}
		items = append(items, im)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate implementations: %w", err)
	}
	return items, nil
}
