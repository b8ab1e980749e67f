// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/danielhkuo/civicvote/auth"
	"github.com/danielhkuo/civicvote/db"
	"github.com/danielhkuo/civicvote/models"
	"github.com/danielhkuo/civicvote/policy"
)

const voteColumns = `id, user_id, proposal_id, choice, voted_at, updated_at`

func scanVote(row rowScanner) (models.Vote, error) {
	var v models.Vote
	err := row.Scan(&v.ID, &v.UserID, &v.ProposalID, &v.Choice, &v.VotedAt, &v.UpdatedAt)
	return v, err
}

// CastVote records a citizen's vote and refreshes the proposal's tally in
// one transaction. A second vote by the same user fails with
// ErrAlreadyVoted, both when it is seen up front and when a concurrent
// insert wins the race to the unique index.
func (s *Store) CastVote(ctx context.Context, id models.Identity, proposalID string, choice models.Choice) (models.Vote, models.Tally, error) {
	if err := (models.CastVoteRequest{ProposalID: proposalID, Choice: choice}).Validate(); err != nil {
		return models.Vote{}, models.Tally{}, err
	}

	var (
		vote  models.Vote
		tally models.Tally
	)
	err := s.withTx(ctx, "store.CastVote", func(ctx context.Context, tx *sql.Tx) error {
		trace.SpanFromContext(ctx).SetAttributes(
			attribute.String("proposal.id", proposalID),
			attribute.String("vote.choice", string(choice)),
		)

		var existing string
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM votes WHERE user_id = $1 AND proposal_id = $2`,
			id.UserID, proposalID).Scan(&existing)
		if err == nil {
			return models.ErrAlreadyVoted
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to check existing vote: %w", err)
		}

		p, err := loadProposal(ctx, tx, proposalID)
		if err != nil {
			return err
		}

		now := s.clock()
		if !policy.Visible(p, id.Jurisdiction, now) {
			return models.ErrNotEligible
		}

		vote = models.Vote{
			ID:         auth.GenerateID(),
			UserID:     id.UserID,
			ProposalID: proposalID,
			Choice:     choice,
			VotedAt:    now,
			UpdatedAt:  now,
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO votes (id, user_id, proposal_id, choice, voted_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, vote.ID, vote.UserID, vote.ProposalID, vote.Choice, vote.VotedAt, vote.UpdatedAt)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return models.ErrAlreadyVoted
			}
			return fmt.Errorf("failed to insert vote: %w", err)
		}

		tally, err = recount(ctx, tx, proposalID, now)
		return err
	})
	if err != nil {
		return models.Vote{}, models.Tally{}, err
	}
	return vote, tally, nil
}

// UpdateVote changes the choice of an existing vote owned by the caller and
// refreshes the tally in the same transaction. The proposal must still be
// visible to the caller.
func (s *Store) UpdateVote(ctx context.Context, id models.Identity, voteID string, choice models.Choice) (models.Vote, models.Tally, error) {
	if err := (models.UpdateVoteRequest{Choice: choice}).Validate(); err != nil {
		return models.Vote{}, models.Tally{}, err
	}

	var (
		vote  models.Vote
		tally models.Tally
	)
	err := s.withTx(ctx, "store.UpdateVote", func(ctx context.Context, tx *sql.Tx) error {
		var err error
		vote, err = scanVote(tx.QueryRowContext(ctx,
			`SELECT `+voteColumns+` FROM votes WHERE id = $1`, voteID))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("vote %s: %w", voteID, models.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to load vote: %w", err)
		}
		if vote.UserID != id.UserID {
			return fmt.Errorf("vote belongs to another user: %w", models.ErrForbidden)
		}

		p, err := loadProposal(ctx, tx, vote.ProposalID)
		if err != nil {
			return err
		}

		now := s.clock()
		if !policy.Visible(p, id.Jurisdiction, now) {
			return models.ErrNotEligible
		}

		vote.Choice = choice
		vote.UpdatedAt = now
		_, err = tx.ExecContext(ctx,
			`UPDATE votes SET choice = $1, updated_at = $2 WHERE id = $3`,
			vote.Choice, vote.UpdatedAt, vote.ID)
		if err != nil {
			return fmt.Errorf("failed to update vote: %w", err)
		}

		tally, err = recount(ctx, tx, vote.ProposalID, now)
		return err
	})
	if err != nil {
		return models.Vote{}, models.Tally{}, err
	}
	return vote, tally, nil
}

// ListMyVotes returns a user's votes, newest first.
func (s *Store) ListMyVotes(ctx context.Context, userID string) ([]models.Vote, error) {
	ctx, span := startSpan(ctx, "store.ListMyVotes")
	defer span.End()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+voteColumns+` FROM votes WHERE user_id = $1 ORDER BY voted_at DESC, id DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate votes: %w", err)
	}
	return votes, nil
}

// RecountTally recomputes a proposal's counters from its votes.
func (s *Store) RecountTally(ctx context.Context, proposalID string) (models.Tally, error) {
	var tally models.Tally
	err := s.withTx(ctx, "store.RecountTally", func(ctx context.Context, tx *sql.Tx) error {
		if _, err := loadProposal(ctx, tx, proposalID); err != nil {
			return err
		}
		var err error
		tally, err = recount(ctx, tx, proposalID, s.clock())
		return err
	})
	if err != nil {
		return models.Tally{}, err
	}
	return tally, nil
}

// recount counts the proposal's votes by choice and overwrites the four
// counters. Counters are never incremented in place.
func recount(ctx context.Context, tx *sql.Tx, proposalID string, now time.Time) (models.Tally, error) {
	var t models.Tally
	err := tx.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN choice = 'yes' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN choice = 'no' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN choice = 'abstain' THEN 1 ELSE 0 END), 0)
		FROM votes
		WHERE proposal_id = $1
	`, proposalID).Scan(&t.Total, &t.Yes, &t.No, &t.Abstain)
	if err != nil {
		return models.Tally{}, fmt.Errorf("failed to count votes: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE proposals
		SET total_votes = $1, yes_votes = $2, no_votes = $3, abstain_votes = $4, updated_at = $5
		WHERE id = $6
	`, t.Total, t.Yes, t.No, t.Abstain, now, proposalID)
	if err != nil {
		return models.Tally{}, fmt.Errorf("failed to update tally: %w", err)
	}
	return t, nil
}
