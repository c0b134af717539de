// Package progress derives level, in-level progress, and badge unlocks from
// a user's stored history. Pure functions only; no storage dependency.
package progress

import "github.com/verlato/mathtutor/internal/tutor/models"

// problemsPerLevel is the fixed level band width: level 1 covers 0-2 saved
// problems, level 2 covers 3-5, and so on. Not configurable.
const problemsPerLevel = 3

// Badge is a named progression marker.
type Badge struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
}

// Summary is the derived progression state for one user.
type Summary struct {
	Level           int
	ProgressPercent int
	Badges          []Badge
}

// badgeSpec gates one badge. Every predicate must be monotone non-decreasing
// in (savedCount, loginCount, distinctTopics): the unlocked set only ever
// grows as the user progresses, even though no ordering guarantee in the
// underlying data feed enforces that.
type badgeSpec struct {
	name        string
	description string
	unlocked    func(savedCount, loginCount, distinctTopics int) bool
}

var catalog = []badgeSpec{
	{"First Session", "Logged in for the first time",
		func(c, l, t int) bool { return l >= 1 }},
	{"Regular", "Logged in 10 times",
		func(c, l, t int) bool { return l >= 10 }},
	{"Topic Explorer", "Archived problems from 3 distinct topics",
		func(c, l, t int) bool { return t >= 3 }},
	{"Collector", "Archived 5 problems",
		func(c, l, t int) bool { return c >= 5 }},
	{"Dedicated", "Archived 20 problems",
		func(c, l, t int) bool { return c >= 20 }},
	{"Archivist", "Archived 50 problems",
		func(c, l, t int) bool { return c >= 50 }},
}

// Compute derives the progression summary from the total saved-mistake count,
// the login count (defaulting to 1 when absent), and the number of distinct
// topics represented in the archive. Deterministic for a given history.
func Compute(savedCount, loginCount, distinctTopics int) Summary {
	if loginCount <= 0 {
		loginCount = 1
	}

	level := savedCount/problemsPerLevel + 1
	percent := (savedCount - (level-1)*problemsPerLevel) * 100 / problemsPerLevel
	if percent > 100 {
		percent = 100
	}

	badges := make([]Badge, 0, len(catalog))
	for _, spec := range catalog {
		badges = append(badges, Badge{
			Name:        spec.name,
			Description: spec.description,
			Unlocked:    spec.unlocked(savedCount, loginCount, distinctTopics),
		})
	}

	return Summary{Level: level, ProgressPercent: percent, Badges: badges}
}

// DistinctTopics counts the distinct topics represented in an archive.
func DistinctTopics(problems []models.Problem) int {
	seen := make(map[models.Topic]struct{}, len(problems))
	for _, p := range problems {
		seen[p.Topic] = struct{}{}
	}
	return len(seen)
}

// FromArchive derives the summary straight from a user's archive and login
// count.
func FromArchive(problems []models.Problem, loginCount int) Summary {
	return Compute(len(problems), loginCount, DistinctTopics(problems))
}
