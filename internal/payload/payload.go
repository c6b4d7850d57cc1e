// Package payload synthesizes the request specs a scenario run dispatches
// against the leaderboard API.
package payload

import (
	"math/rand"
	"net/http"
	"time"
)

const maxScore = 100000

// Spec is an immutable description of one operation to execute against the
// target API. Specs are built before dispatch and never mutated afterwards,
// so they can be shared freely across concurrent executions.
type Spec interface {
	// ExpectedStatus is the HTTP status code that counts as success for this
	// operation.
	ExpectedStatus() int
}

// ScoreSubmission posts one score for a user.
type ScoreSubmission struct {
	UserID          int64 `json:"userId"`
	GameID          int64 `json:"gameId"`
	Score           int64 `json:"score"`
	TimestampMillis int64 `json:"timestamp"`
}

func (ScoreSubmission) ExpectedStatus() int { return http.StatusAccepted }

// LeaderboardRead fetches the top-K leaders for a game.
type LeaderboardRead struct {
	GameID int64
	Limit  int
	Window string // empty means all-time
}

func (LeaderboardRead) ExpectedStatus() int { return http.StatusOK }

// RankRead fetches a single user's rank within a game.
type RankRead struct {
	GameID int64
	UserID int64
	Window string // empty means all-time
}

func (RankRead) ExpectedStatus() int { return http.StatusOK }

// Source yields the random values payload generation needs. *rand.Rand
// satisfies it; tests can supply a deterministic implementation.
type Source interface {
	Int63n(n int64) int64
}

// Generator produces batches of specs from scenario configuration. The clock
// and randomness source are injected so generation is a pure function of
// configuration plus those capabilities.
type Generator struct {
	GameID     int64
	IDOffset   int64  // first synthetic user id
	Population int64  // size of the simulated user base for rank reads
	Limit      int    // leaderboard read page size
	Window     string // optional sliding window, e.g. "24h"

	Now  func() time.Time
	Rand Source
}

// NewGenerator returns a Generator with wall-clock time and a seeded random
// source. Seed 0 derives a seed from the current time.
func NewGenerator(gameID, idOffset, population int64, limit int, window string, seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		GameID:     gameID,
		IDOffset:   idOffset,
		Population: population,
		Limit:      limit,
		Window:     window,
		Now:        time.Now,
		Rand:       rand.New(rand.NewSource(seed)),
	}
}

// ScoreBatch produces n score submissions with sequential user ids starting
// at IDOffset, simulating distinct users submitting concurrently. Scores are
// uniform in [1, maxScore]; timestamps are the current wall clock in ms.
func (g *Generator) ScoreBatch(n int) []Spec {
	specs := make([]Spec, 0, n)
	for i := 0; i < n; i++ {
		specs = append(specs, ScoreSubmission{
			UserID:          g.IDOffset + int64(i),
			GameID:          g.GameID,
			Score:           1 + g.Rand.Int63n(maxScore),
			TimestampMillis: g.Now().UnixMilli(),
		})
	}
	return specs
}

// LeaderBatch produces n identical top-K leaderboard reads.
func (g *Generator) LeaderBatch(n int) []Spec {
	specs := make([]Spec, 0, n)
	for i := 0; i < n; i++ {
		specs = append(specs, LeaderboardRead{
			GameID: g.GameID,
			Limit:  g.Limit,
			Window: g.Window,
		})
	}
	return specs
}

// RankBatch produces n rank reads for user ids sampled uniformly from
// [IDOffset, IDOffset+Population], simulating queries against a large
// population.
func (g *Generator) RankBatch(n int) []Spec {
	specs := make([]Spec, 0, n)
	for i := 0; i < n; i++ {
		specs = append(specs, RankRead{
			GameID: g.GameID,
			UserID: g.IDOffset + g.Rand.Int63n(g.Population+1),
			Window: g.Window,
		})
	}
	return specs
}
