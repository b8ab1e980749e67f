// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/danielhkuo/civicvote/auth"
	"github.com/danielhkuo/civicvote/models"
)

const adminColumns = `id, user_id, assigned_region, assigned_zone_or_subcity, assigned_woreda,
	job_description, contact_info, permissions, is_active, created_at`

func scanAdmin(row rowScanner) (models.Admin, error) {
	var (
		a   models.Admin
		raw string
	)
	err := row.Scan(&a.ID, &a.UserID, &a.AssignedRegion, &a.AssignedZoneOrSubcity, &a.AssignedWoreda,
		&a.JobDescription, &a.ContactInfo, &raw, &a.IsActive, &a.CreatedAt)
	if err != nil {
		return models.Admin{}, err
	}
	if err := json.Unmarshal([]byte(raw), &a.Permissions); err != nil {
		return models.Admin{}, fmt.Errorf("failed to decode permissions: %w", err)
	}
	return a, nil
}

// UpsertAdmin creates the admin record for req.UserID, or replaces it when
// one exists. The record id survives a replace so complaints keep pointing
// at it.
func (s *Store) UpsertAdmin(ctx context.Context, req models.AdminRequest) (models.Admin, error) {
	if err := req.Validate(); err != nil {
		return models.Admin{}, err
	}
	if req.Permissions == nil {
		req.Permissions = []models.Scope{}
	}
	perms, err := json.Marshal(req.Permissions)
	if err != nil {
		return models.Admin{}, fmt.Errorf("failed to encode permissions: %w", err)
	}

	var a models.Admin
	err = s.withTx(ctx, "store.UpsertAdmin", func(ctx context.Context, tx *sql.Tx) error {
		a = models.Admin{
			UserID:                req.UserID,
			AssignedRegion:        req.AssignedRegion,
			AssignedZoneOrSubcity: req.AssignedZoneOrSubcity,
			AssignedWoreda:        req.AssignedWoreda,
			JobDescription:        req.JobDescription,
			ContactInfo:           req.ContactInfo,
			Permissions:           req.Permissions,
			IsActive:              true,
		}

		err := tx.QueryRowContext(ctx,
			`SELECT id, created_at FROM admins WHERE user_id = $1`, req.UserID).Scan(&a.ID, &a.CreatedAt)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			a.ID = auth.GenerateID()
			a.CreatedAt = s.clock()
			_, err = tx.ExecContext(ctx, `
				INSERT INTO admins (id, user_id, assigned_region, assigned_zone_or_subcity, assigned_woreda,
					job_description, contact_info, permissions, is_active, is_deleted, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, FALSE, $9)
			`, a.ID, a.UserID, a.AssignedRegion, a.AssignedZoneOrSubcity, a.AssignedWoreda,
				a.JobDescription, a.ContactInfo, string(perms), a.CreatedAt)
			if err != nil {
				return fmt.Errorf("failed to insert admin: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to load admin: %w", err)
		default:
			_, err = tx.ExecContext(ctx, `
				UPDATE admins
				SET assigned_region = $1, assigned_zone_or_subcity = $2, assigned_woreda = $3,
					job_description = $4, contact_info = $5, permissions = $6,
					is_active = TRUE, is_deleted = FALSE
				WHERE id = $7
			`, a.AssignedRegion, a.AssignedZoneOrSubcity, a.AssignedWoreda,
				a.JobDescription, a.ContactInfo, string(perms), a.ID)
			if err != nil {
				return fmt.Errorf("failed to update admin: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return models.Admin{}, err
	}
	return a, nil
}

// GetAdminByUser returns the non-deleted admin record of a user.
func (s *Store) GetAdminByUser(ctx context.Context, userID string) (models.Admin, error) {
	ctx, span := startSpan(ctx, "store.GetAdminByUser")
	defer span.End()

	a, err := scanAdmin(s.db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE user_id = $1 AND is_deleted = FALSE`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Admin{}, fmt.Errorf("admin for user %s: %w", userID, models.ErrNotFound)
	}
	if err != nil {
		return models.Admin{}, fmt.Errorf("failed to load admin: %w", err)
	}
	return a, nil
}

// ListAdmins returns non-deleted admin records, oldest first.
func (s *Store) ListAdmins(ctx context.Context, page Page) ([]models.Admin, error) {
	ctx, span := startSpan(ctx, "store.ListAdmins")
	defer span.End()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE is_deleted = FALSE
		ORDER BY created_at, id LIMIT $1 OFFSET $2`, page.Limit, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to query admins: %w", err)
	}
	defer rows.Close()

	admins := []models.Admin{}
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan admin: %w", err)
		}
		admins = append(admins, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate admins: %w", err)
	}
	return admins, nil
}
