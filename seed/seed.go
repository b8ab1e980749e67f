// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package seed

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/civicvote/models"
	"github.com/danielhkuo/civicvote/store"
)

// SeedUser creates proposals that name no creator. It acts as a superadmin.
const SeedUser = "seed"

// File is the YAML seed document
type File struct {
	Admins    []models.Admin `yaml:"admins"`
	Proposals []Proposal     `yaml:"proposals"`
}

// Proposal is a draft plus the admin it is created as
type Proposal struct {
	CreatedBy            string `yaml:"createdBy"`
	models.ProposalDraft `yaml:",inline"`
}

// Result counts what Apply wrote
type Result struct {
	Admins    int
	Proposals int
}

func (r Result) String() string {
	return fmt.Sprintf("%s admins, %s proposals",
		humanize.Comma(int64(r.Admins)), humanize.Comma(int64(r.Proposals)))
}

// Load decodes a seed document. Unknown keys are rejected.
func Load(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return File{}, fmt.Errorf("failed to decode seed file: %w", err)
	}
	return f, nil
}

// LoadFile reads a seed document from disk
func LoadFile(path string) (File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return File{}, err
	}
	defer fh.Close()
	return Load(fh)
}

// Apply writes admins first so that proposals created as those admins pass
// the permission gate. It stops at the first failure.
func Apply(ctx context.Context, st *store.Store, f File) (Result, error) {
	var res Result

	for i, a := range f.Admins {
		_, err := st.UpsertAdmin(ctx, models.AdminRequest{
			UserID:                a.UserID,
			AssignedRegion:        a.AssignedRegion,
			AssignedZoneOrSubcity: a.AssignedZoneOrSubcity,
			AssignedWoreda:        a.AssignedWoreda,
			JobDescription:        a.JobDescription,
			ContactInfo:           a.ContactInfo,
			Permissions:           a.Permissions,
		})
		if err != nil {
			return res, fmt.Errorf("admin %d (%s): %w", i, a.UserID, err)
		}
		res.Admins++
	}

	for i, p := range f.Proposals {
		creator := models.Identity{UserID: p.CreatedBy, Role: models.RoleAdmin}
		if p.CreatedBy == "" {
			creator = models.Identity{UserID: SeedUser, Role: models.RoleSuperadmin}
		}
		if _, err := st.CreateProposal(ctx, creator, p.ProposalDraft); err != nil {
			return res, fmt.Errorf("proposal %d (%q): %w", i, p.Title, err)
		}
		res.Proposals++
	}

	return res, nil
}
