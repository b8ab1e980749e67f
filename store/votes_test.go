// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
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

// countVotes reads the ground truth a tally must match.
func countVotes(t *testing.T, conn *sql.DB, proposalID string) models.Tally {
	t.Helper()
	var tally models.Tally
	rows, err := conn.Query(`SELECT choice, COUNT(*) FROM votes WHERE proposal_id = $1 GROUP BY choice`, proposalID)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var (
			choice models.Choice
			n      int
		)
		require.NoError(t, rows.Scan(&choice, &n))
		switch choice {
		case models.ChoiceYes:
			tally.Yes = n
		case models.ChoiceNo:
			tally.No = n
		case models.ChoiceAbstain:
			tally.Abstain = n
		}
		tally.Total += n
	}
	require.NoError(t, rows.Err())
	return tally
}

func storedTally(t *testing.T, s *Store, proposalID string) models.Tally {
	t.Helper()
	p, err := s.GetProposal(context.Background(), proposalID)
	require.NoError(t, err)
	return p.Tally()
}

func TestCastVote_Scenario(t *testing.T) {
	s, conn := newTestStore(t)
	ctx := context.Background()

	id := testutil.CreateTestProposal(t, conn, testutil.TestProposal{
		Scope:  models.ScopeRegional,
		Target: "Oromia",
		EndsAt: time.Now().Add(24 * time.Hour),
	})

	visible, err := s.ListEligibleProposals(ctx, models.Jurisdiction{Region: "Oromia"}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, []string{id}, proposalIDs(visible))

	hidden, err := s.ListEligibleProposals(ctx, models.Jurisdiction{Region: "Amhara"}, time.Now())
	require.NoError(t, err)
	assert.Empty(t, hidden)

	citizen := testutil.Citizen("citizen-1", "Oromia")
	vote, tally, err := s.CastVote(ctx, citizen, id, models.ChoiceYes)
	require.NoError(t, err)
	assert.Equal(t, models.ChoiceYes, vote.Choice)
	assert.Equal(t, models.Tally{Total: 1, Yes: 1}, tally)
	assert.Equal(t, models.Tally{Total: 1, Yes: 1}, storedTally(t, s, id))

	_, _, err = s.CastVote(ctx, citizen, id, models.ChoiceNo)
	assert.ErrorIs(t, err, models.ErrAlreadyVoted)
	assert.Equal(t, models.Tally{Total: 1, Yes: 1}, storedTally(t, s, id))
}

func TestCastVote_Rejections(t *testing.T) {
	s, conn := newTestStore(t)
	ctx := context.Background()

	regional := testutil.CreateTestProposal(t, conn, testutil.TestProposal{Scope: models.ScopeRegional, Target: "Oromia"})
	inactive := testutil.CreateTestProposal(t, conn, testutil.TestProposal{Inactive: true})
	ended := testutil.CreateTestProposal(t, conn, testutil.TestProposal{EndsAt: time.Now().Add(-time.Hour)})
	deleted := testutil.CreateTestProposal(t, conn, testutil.TestProposal{Deleted: true})
	national := testutil.CreateTestProposal(t, conn, testutil.TestProposal{})

	tests := []struct {
		name       string
		id         models.Identity
		proposalID string
		choice     models.Choice
		wantErr    error
	}{
		{"wrong region", testutil.Citizen("c1", "Amhara"), regional, models.ChoiceYes, models.ErrNotEligible},
		{"no region", testutil.Citizen("c1", ""), regional, models.ChoiceYes, models.ErrNotEligible},
		{"inactive", testutil.Citizen("c1", "Oromia"), inactive, models.ChoiceYes, models.ErrNotEligible},
		{"ended", testutil.Citizen("c1", "Oromia"), ended, models.ChoiceYes, models.ErrNotEligible},
		{"deleted", testutil.Citizen("c1", "Oromia"), deleted, models.ChoiceYes, models.ErrNotEligible},
		{"missing proposal", testutil.Citizen("c1", "Oromia"), "missing", models.ChoiceYes, models.ErrNotFound},
		{"bad choice", testutil.Citizen("c1", "Oromia"), national, models.Choice("maybe"), models.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.CastVote(ctx, tt.id, tt.proposalID, tt.choice)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	var n int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM votes`).Scan(&n))
	assert.Zero(t, n, "rejected votes leave no rows")
}

func TestCastVote_AlreadyVotedBeforeEligibility(t *testing.T) {
	s, conn := newTestStore(t)
	ctx := context.Background()
	id := testutil.CreateTestProposal(t, conn, testutil.TestProposal{CreatedBy: "a1"})
	citizen := testutil.Citizen("c1", "")

	_, _, err := s.CastVote(ctx, citizen, id, models.ChoiceNo)
	require.NoError(t, err)
	_, err = s.SetProposalActive(ctx, testutil.Admin("a1"), id, false)
	require.NoError(t, err)

	_, _, err = s.CastVote(ctx, citizen, id, models.ChoiceNo)
	assert.ErrorIs(t, err, models.ErrAlreadyVoted)
}

func TestCastVote_ConcurrentSameUser(t *testing.T) {
	s, conn := newTestStore(t)
	id := testutil.CreateTestProposal(t, conn, testutil.TestProposal{})
	citizen := testutil.Citizen("c1", "")

	const attempts = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		dupes     int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.CastVote(context.Background(), citizen, id, models.ChoiceYes)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, models.ErrAlreadyVoted):
				dupes++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, dupes)
	assert.Equal(t, models.Tally{Total: 1, Yes: 1}, countVotes(t, conn, id))
	assert.Equal(t, models.Tally{Total: 1, Yes: 1}, storedTally(t, s, id))
}

func TestCastVote_ConcurrentManyUsers(t *testing.T) {
	s, conn := newTestStore(t)
	id := testutil.CreateTestProposal(t, conn, testutil.TestProposal{})
	choices := []models.Choice{models.ChoiceYes, models.ChoiceNo, models.ChoiceAbstain}

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			citizen := testutil.Citizen(fmt.Sprintf("c%d", i), "")
			if _, _, err := s.CastVote(context.Background(), citizen, id, choices[i%3]); err != nil {
				t.Errorf("CastVote(%d) error = %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	want := models.Tally{Total: 30, Yes: 10, No: 10, Abstain: 10}
	assert.Equal(t, want, countVotes(t, conn, id))
	assert.Equal(t, want, storedTally(t, s, id))
}

func TestUpdateVote(t *testing.T) {
	s, conn := newTestStore(t)
	ctx := context.Background()
	id := testutil.CreateTestProposal(t, conn, testutil.TestProposal{})

	alice := testutil.Citizen("alice", "")
	bob := testutil.Citizen("bob", "")
	aliceVote, _, err := s.CastVote(ctx, alice, id, models.ChoiceYes)
	require.NoError(t, err)
	_, _, err = s.CastVote(ctx, bob, id, models.ChoiceNo)
	require.NoError(t, err)
	before := storedTally(t, s, id)
	assert.Equal(t, models.Tally{Total: 2, Yes: 1, No: 1}, before)

	t.Run("owner changes choice", func(t *testing.T) {
		vote, tally, err := s.UpdateVote(ctx, alice, aliceVote.ID, models.ChoiceNo)
		require.NoError(t, err)
		assert.Equal(t, models.ChoiceNo, vote.Choice)
		assert.Equal(t, before.Total, tally.Total, "total is unchanged by an update")
		assert.Equal(t, models.Tally{Total: 2, No: 2}, tally)
		assert.Equal(t, countVotes(t, conn, id), storedTally(t, s, id))
	})

	t.Run("someone else's vote", func(t *testing.T) {
		_, _, err := s.UpdateVote(ctx, bob, aliceVote.ID, models.ChoiceAbstain)
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("missing vote", func(t *testing.T) {
		_, _, err := s.UpdateVote(ctx, alice, "missing", models.ChoiceAbstain)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("bad choice", func(t *testing.T) {
		_, _, err := s.UpdateVote(ctx, alice, aliceVote.ID, models.Choice(""))
		assert.ErrorIs(t, err, models.ErrValidation)
	})
}

func TestUpdateVote_ProposalNoLongerVisible(t *testing.T) {
	s, conn := newTestStore(t)
	ctx := context.Background()
	id := testutil.CreateTestProposal(t, conn, testutil.TestProposal{CreatedBy: "a1"})
	citizen := testutil.Citizen("c1", "")

	vote, _, err := s.CastVote(ctx, citizen, id, models.ChoiceYes)
	require.NoError(t, err)
	_, err = s.SetProposalActive(ctx, testutil.Admin("a1"), id, false)
	require.NoError(t, err)

	_, _, err = s.UpdateVote(ctx, citizen, vote.ID, models.ChoiceNo)
	assert.ErrorIs(t, err, models.ErrNotEligible)
}

func TestListMyVotes(t *testing.T) {
	now := time.Now().UTC()
	clock := now
	conn := testutil.SetupTestDB(t)
	s := New(conn, WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	p1 := testutil.CreateTestProposal(t, conn, testutil.TestProposal{})
	p2 := testutil.CreateTestProposal(t, conn, testutil.TestProposal{})
	citizen := testutil.Citizen("c1", "")

	_, _, err := s.CastVote(ctx, citizen, p1, models.ChoiceYes)
	require.NoError(t, err)
	clock = now.Add(time.Minute)
	_, _, err = s.CastVote(ctx, citizen, p2, models.ChoiceNo)
	require.NoError(t, err)
	_, _, err = s.CastVote(ctx, testutil.Citizen("c2", ""), p1, models.ChoiceNo)
	require.NoError(t, err)

	votes, err := s.ListMyVotes(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, votes, 2)
	assert.Equal(t, p2, votes[0].ProposalID)
	assert.Equal(t, p1, votes[1].ProposalID)

	none, err := s.ListMyVotes(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRecountTally(t *testing.T) {
	s, conn := newTestStore(t)
	ctx := context.Background()
	id := testutil.CreateTestProposal(t, conn, testutil.TestProposal{})

	_, _, err := s.CastVote(ctx, testutil.Citizen("c1", ""), id, models.ChoiceAbstain)
	require.NoError(t, err)

	_, err = conn.Exec(`UPDATE proposals SET total_votes = 42, yes_votes = 40 WHERE id = $1`, id)
	require.NoError(t, err)

	tally, err := s.RecountTally(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.Tally{Total: 1, Abstain: 1}, tally)
	assert.Equal(t, tally, storedTally(t, s, id))

	_, err = s.RecountTally(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

// Any sequence of casts and updates leaves the counters equal to the
// grouped vote count.
func TestTallyMatchesVotes_Property(t *testing.T) {
	s, conn := newTestStore(t)
	choices := []models.Choice{models.ChoiceYes, models.ChoiceNo, models.ChoiceAbstain}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 25
	properties := gopter.NewProperties(parameters)

	properties.Property("counters equal grouped vote counts", prop.ForAll(
		func(ops []int) bool {
			ctx := context.Background()
			id := testutil.CreateTestProposal(t, conn, testutil.TestProposal{})
			voteIDs := map[string]string{}

			for _, op := range ops {
				user := fmt.Sprintf("u%d", op/3)
				choice := choices[op%3]
				citizen := testutil.Citizen(user, "")
				if voteID, ok := voteIDs[user]; ok {
					if _, _, err := s.UpdateVote(ctx, citizen, voteID, choice); err != nil {
						return false
					}
					continue
				}
				vote, _, err := s.CastVote(ctx, citizen, id, choice)
				if err != nil {
					return false
				}
				voteIDs[user] = vote.ID
			}

			stored := storedTally(t, s, id)
			return stored == countVotes(t, conn, id) &&
				stored.Yes+stored.No+stored.Abstain == stored.Total &&
				stored.Total == len(voteIDs)
		},
		gen.SliceOf(gen.IntRange(0, 14)),
	))

	properties.TestingRun(t)
}
