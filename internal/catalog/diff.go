package catalog

import (
	"math"
	"strings"

	"coursereview/internal/domain"
)

// Changes lists the course codes that differ between two catalog versions,
// each in the order of the version it was found in.
type Changes struct {
	Added   []string
	Updated []string
	Removed []string
}

// Empty reports whether nothing changed.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Updated) == 0 && len(c.Removed) == 0
}

// Diff compares two course lists by canonical code. Bookmark state is not a
// change: it is local and rides along on every snapshot.
func Diff(prev, next []domain.Course) Changes {
	prevByKey := make(map[string]domain.Course, len(prev))
	for _, c := range prev {
		prevByKey[c.Key()] = c
	}
	nextKeys := make(map[string]struct{}, len(next))

	var ch Changes
	for _, n := range next {
		key := n.Key()
		nextKeys[key] = struct{}{}
		p, ok := prevByKey[key]
		if !ok {
			ch.Added = append(ch.Added, n.Code)
			continue
		}
		if courseChanged(p, n) {
			ch.Updated = append(ch.Updated, n.Code)
		}
	}
	for _, p := range prev {
		if _, ok := nextKeys[p.Key()]; !ok {
			ch.Removed = append(ch.Removed, p.Code)
		}
	}
	return ch
}

func courseChanged(a, b domain.Course) bool {
	if a.ID != b.ID || a.Credit != b.Credit || a.ReviewCount != b.ReviewCount {
		return true
	}
	if norm(a.Title) != norm(b.Title) ||
		norm(a.Instructor) != norm(b.Instructor) ||
		norm(a.Term) != norm(b.Term) ||
		norm(a.Department) != norm(b.Department) ||
		norm(a.AISummary) != norm(b.AISummary) {
		return true
	}
	// Scores: tolerate float formatting noise from the backend.
	return math.Abs(a.WorkloadScore-b.WorkloadScore) > 0.01 ||
		math.Abs(a.RatingScore-b.RatingScore) > 0.01
}

func norm(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}
