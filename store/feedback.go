// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/civicvote/auth"
	"github.com/danielhkuo/civicvote/models"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
	MaxPage      = 100000
)

// Page selects a window of a listing. Page numbers start at 1.
type Page struct {
	Page  int
	Limit int
}

// NewPage clamps page to 1..MaxPage and limit to 1..MaxLimit, using
// DefaultLimit when limit is not positive.
func NewPage(page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Page: page, Limit: limit}
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

const feedbackColumns = `id, user_id, title, message, category, priority, status,
	region, woreda, proposal_id, submitted_at, updated_at`

func scanFeedback(row rowScanner) (models.Feedback, error) {
	var f models.Feedback
	err := row.Scan(&f.ID, &f.UserID, &f.Title, &f.Message, &f.Category, &f.Priority, &f.Status,
		&f.Region, &f.Woreda, &f.ProposalID, &f.SubmittedAt, &f.UpdatedAt)
	return f, err
}

// CreateFeedback stores a citizen's feedback. Region and woreda come from
// the caller's jurisdiction.
func (s *Store) CreateFeedback(ctx context.Context, id models.Identity, req models.FeedbackRequest) (models.Feedback, error) {
	if err := req.Validate(); err != nil {
		return models.Feedback{}, err
	}
	if req.ProposalID != nil && *req.ProposalID == "" {
		req.ProposalID = nil
	}

	var f models.Feedback
	err := s.withTx(ctx, "store.CreateFeedback", func(ctx context.Context, tx *sql.Tx) error {
		if req.ProposalID != nil {
			p, err := loadProposal(ctx, tx, *req.ProposalID)
			if err != nil {
				return err
			}
			if p.IsDeleted {
				return fmt.Errorf("proposal %s: %w", p.ID, models.ErrNotFound)
			}
		}

		now := s.clock()
		f = models.Feedback{
			ID:          auth.GenerateID(),
			UserID:      id.UserID,
			Title:       req.Title,
			Message:     req.Message,
			Category:    req.Category,
			Priority:    req.Priority,
			Status:      models.FeedbackPending,
			Region:      id.Jurisdiction.Region,
			Woreda:      id.Jurisdiction.Woreda,
			ProposalID:  req.ProposalID,
			SubmittedAt: now,
			UpdatedAt:   now,
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO feedback (id, user_id, title, message, category, priority, status,
				region, woreda, proposal_id, submitted_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, f.ID, f.UserID, f.Title, f.Message, f.Category, f.Priority, f.Status,
			f.Region, f.Woreda, f.ProposalID, f.SubmittedAt, f.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert feedback: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Feedback{}, err
	}
	return f, nil
}

// ListFeedback returns feedback newest first. An empty userID lists
// everyone's; an empty status lists every status.
func (s *Store) ListFeedback(ctx context.Context, userID string, status models.FeedbackStatus, page Page) ([]models.Feedback, error) {
	ctx, span := startSpan(ctx, "store.ListFeedback")
	defer span.End()

	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE is_deleted = FALSE`
	var args []any
	if userID != "" {
		args = append(args, userID)
		query += fmt.Sprintf(` AND user_id = $%d`, len(args))
	}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	args = append(args, page.Limit, page.Offset())
	query += fmt.Sprintf(` ORDER BY submitted_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer rows.Close()

	items := []models.Feedback{}
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate feedback: %w", err)
	}
	return items, nil
}

// SetFeedbackStatus marks feedback pending or seen.
func (s *Store) SetFeedbackStatus(ctx context.Context, feedbackID string, status models.FeedbackStatus) (models.Feedback, error) {
	if !status.Valid() {
		return models.Feedback{}, &models.ValidationError{Issues: []string{"status must be pending or seen"}}
	}

	var f models.Feedback
	err := s.withTx(ctx, "store.SetFeedbackStatus", func(ctx context.Context, tx *sql.Tx) error {
		var err error
		f, err = scanFeedback(tx.QueryRowContext(ctx,
			`SELECT `+feedbackColumns+` FROM feedback WHERE id = $1 AND is_deleted = FALSE`, feedbackID))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("feedback %s: %w", feedbackID, models.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to load feedback: %w", err)
		}

		f.Status = status
		f.UpdatedAt = s.clock()
		_, err = tx.ExecContext(ctx,
			`UPDATE feedback SET status = $1, updated_at = $2 WHERE id = $3`,
			f.Status, f.UpdatedAt, f.ID)
		if err != nil {
			return fmt.Errorf("failed to update feedback: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Feedback{}, err
	}
	return f, nil
}

const complaintColumns = `id, user_id, title, message, priority, to_admin,
	region, zone_or_subcity, woreda, submitted_at`

// CreateComplaint addresses a complaint to an active admin record.
func (s *Store) CreateComplaint(ctx context.Context, id models.Identity, req models.ComplaintRequest) (models.Complaint, error) {
	if err := req.Validate(); err != nil {
		return models.Complaint{}, err
	}

	var c models.Complaint
	err := s.withTx(ctx, "store.CreateComplaint", func(ctx context.Context, tx *sql.Tx) error {
		var adminID string
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM admins WHERE id = $1 AND is_active = TRUE AND is_deleted = FALSE`,
			req.ToAdmin).Scan(&adminID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("admin %s: %w", req.ToAdmin, models.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to load admin: %w", err)
		}

		c = models.Complaint{
			ID:            auth.GenerateID(),
			UserID:        id.UserID,
			Title:         req.Title,
			Message:       req.Message,
			Priority:      req.Priority,
			ToAdmin:       adminID,
			Region:        req.Region,
			ZoneOrSubcity: req.ZoneOrSubcity,
			Woreda:        req.Woreda,
			SubmittedAt:   s.clock(),
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO complaints (id, user_id, title, message, priority, to_admin,
				region, zone_or_subcity, woreda, submitted_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, c.ID, c.UserID, c.Title, c.Message, c.Priority, c.ToAdmin,
			c.Region, c.ZoneOrSubcity, c.Woreda, c.SubmittedAt)
		if err != nil {
			return fmt.Errorf("failed to insert complaint: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Complaint{}, err
	}
	return c, nil
}

// ListComplaints returns the complaints addressed to the caller's admin
// record, or all complaints for a superadmin.
func (s *Store) ListComplaints(ctx context.Context, id models.Identity) ([]models.Complaint, error) {
	if !id.Role.HasAdminPrivilege() {
		return nil, models.ErrForbidden
	}

	ctx, span := startSpan(ctx, "store.ListComplaints")
	defer span.End()

	query := `SELECT ` + complaintColumns + ` FROM complaints`
	var args []any
	if id.Role != models.RoleSuperadmin {
		query += ` WHERE to_admin IN (SELECT id FROM admins WHERE user_id = $1)`
		args = append(args, id.UserID)
	}
	query += ` ORDER BY submitted_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query complaints: %w", err)
	}
	defer rows.Close()

	complaints := []models.Complaint{}
	for rows.Next() {
		var c models.Complaint
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.Message, &c.Priority, &c.ToAdmin,
			&c.Region, &c.ZoneOrSubcity, &c.Woreda, &c.SubmittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan complaint: %w", err)
		}
		complaints = append(complaints, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate complaints: %w", err)
	}
	return complaints, nil
}
