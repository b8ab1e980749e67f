// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package policy

import (
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/civicvote/models"
	"github.com/danielhkuo/civicvote/testutil"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func proposal(scope models.Scope, target string) models.Proposal {
	return models.Proposal{
		Scope:    scope,
		Target:   target,
		IsActive: true,
		StartsAt: now.Add(-24 * time.Hour),
		EndsAt:   now.Add(24 * time.Hour),
	}
}

func TestVisible(t *testing.T) {
	oromia := models.Jurisdiction{Region: "Oromia", ZoneOrSubcity: "Adama", Woreda: "Woreda 01"}

	inactive := proposal(models.ScopeNational, "")
	inactive.IsActive = false
	ended := proposal(models.ScopeNational, "")
	ended.EndsAt = now.Add(-time.Second)
	endsNow := proposal(models.ScopeNational, "")
	endsNow.EndsAt = now
	deleted := proposal(models.ScopeNational, "")
	deleted.IsDeleted = true

	tests := []struct {
		name     string
		proposal models.Proposal
		citizen  models.Jurisdiction
		want     bool
	}{
		{"national reaches everyone", proposal(models.ScopeNational, ""), oromia, true},
		{"national reaches unverified", proposal(models.ScopeNational, ""), models.Jurisdiction{}, true},
		{"regional match", proposal(models.ScopeRegional, "Oromia"), oromia, true},
		{"regional mismatch", proposal(models.ScopeRegional, "Amhara"), oromia, false},
		{"zone match", proposal(models.ScopeZoneOrSubcity, "Adama"), oromia, true},
		{"woreda match", proposal(models.ScopeWoreda, "Woreda 01"), oromia, true},
		{"woreda target equal to region", proposal(models.ScopeWoreda, "Oromia"), oromia, false},
		{"regional with unverified citizen", proposal(models.ScopeRegional, ""), models.Jurisdiction{}, false},
		{"case sensitive", proposal(models.ScopeRegional, "oromia"), oromia, false},
		{"inactive", inactive, oromia, false},
		{"ended", ended, oromia, false},
		{"ends exactly now", endsNow, oromia, true},
		{"deleted", deleted, oromia, false},
		{"unknown scope", proposal(models.Scope("galaxy"), "Oromia"), oromia, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Visible(tt.proposal, tt.citizen, now))
		})
	}
}

// Matching is by the citizen's own woreda only, whatever their region or
// zone says.
func TestWoredaExactness_Property(t *testing.T) {
	properties := gopter.NewProperties(nil)

	names := gen.OneConstOf("Bole", "Yeka", "Kirkos", "Adama", "Oromia", "")

	properties.Property("woreda proposal visible iff woreda equals target", prop.ForAll(
		func(region, zone, woreda string) bool {
			j := models.Jurisdiction{Region: region, ZoneOrSubcity: zone, Woreda: woreda}
			return Visible(proposal(models.ScopeWoreda, "Bole"), j, now) == (woreda == "Bole")
		},
		names, names, names,
	))

	properties.TestingRun(t)
}

func TestFilter_Shape(t *testing.T) {
	clause, args := Filter(models.Jurisdiction{Region: "Oromia", Woreda: "Bole"}, now, 3)

	assert.Equal(t,
		"is_active = TRUE AND is_deleted = FALSE AND ends_at >= $3 AND "+
			"(scope = $4 OR (scope = $5 AND target = $6) OR (scope = $7 AND target = $8))",
		clause)
	assert.Equal(t, []any{now, "national", "regional", "Oromia", "woreda", "Bole"}, args)

	clause, args = Filter(models.Jurisdiction{}, now, 1)
	assert.Equal(t, "is_active = TRUE AND is_deleted = FALSE AND ends_at >= $1 AND (scope = $2)", clause)
	assert.Len(t, args, 2)
}

// Filter run by the database selects exactly the proposals Visible accepts.
func TestFilterAgreesWithVisible(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	clock := time.Now().UTC()

	scopes := []models.Scope{models.ScopeNational, models.ScopeRegional, models.ScopeZoneOrSubcity, models.ScopeWoreda}
	targets := []string{"", "Oromia", "Adama", "Bole"}

	inserted := map[string]models.Proposal{}
	for _, scope := range scopes {
		for _, target := range targets {
			for _, inactive := range []bool{false, true} {
				for _, deleted := range []bool{false, true} {
					for _, endsAt := range []time.Time{clock.Add(-time.Hour), clock.Add(time.Hour)} {
						id := testutil.CreateTestProposal(t, conn, testutil.TestProposal{
							Scope:    scope,
							Target:   target,
							Inactive: inactive,
							Deleted:  deleted,
							StartsAt: clock.Add(-2 * time.Hour),
							EndsAt:   endsAt,
						})
						inserted[id] = models.Proposal{
							ID: id, Scope: scope, Target: target,
							IsActive: !inactive, IsDeleted: deleted, EndsAt: endsAt,
						}
					}
				}
			}
		}
	}

	citizens := []models.Jurisdiction{
		{},
		{Region: "Oromia"},
		{Region: "Oromia", ZoneOrSubcity: "Adama", Woreda: "Bole"},
		{Woreda: "Oromia"},
		{Region: "Amhara", ZoneOrSubcity: "Bole"},
	}

	for _, j := range citizens {
		t.Run(fmt.Sprintf("%+v", j), func(t *testing.T) {
			clause, args := Filter(j, clock, 1)
			rows, err := conn.Query(`SELECT id FROM proposals WHERE `+clause, args...)
			require.NoError(t, err)
			defer rows.Close()

			got := map[string]bool{}
			for rows.Next() {
				var id string
				require.NoError(t, rows.Scan(&id))
				got[id] = true
			}
			require.NoError(t, rows.Err())

			for id, p := range inserted {
				assert.Equal(t, Visible(p, j, clock), got[id], "proposal %+v", p)
			}
		})
	}
}
