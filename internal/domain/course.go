package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Course is the canonical representation of a course inside the catalog.
// Remote payloads and the seed dataset both map into this model; Code is the
// join key between them.
type Course struct {
	ID            int64   `json:"id,omitempty" yaml:"id,omitempty"` // 0 for seed-only records
	Code          string  `json:"code" yaml:"code"`                 // "CS 2110"
	Title         string  `json:"title" yaml:"title"`
	Instructor    string  `json:"instructor" yaml:"instructor"`
	Term          string  `json:"term" yaml:"term"`
	Department    string  `json:"department" yaml:"department"`
	Credit        int     `json:"credit" yaml:"credit"`
	WorkloadScore float64 `json:"workloadScore" yaml:"workloadScore"`
	RatingScore   float64 `json:"ratingScore" yaml:"ratingScore"`
	ReviewCount   int     `json:"reviewCount" yaml:"reviewCount"`
	AISummary     string  `json:"aiSummary,omitempty" yaml:"aiSummary,omitempty"`

	// IsBookmarked is derived from the BookmarkSet on every publish and is
	// never persisted on its own.
	IsBookmarked bool `json:"isBookmarked" yaml:"isBookmarked"`
}

// HasRemoteID reports whether the course is backed by a remote record.
func (c Course) HasRemoteID() bool { return c.ID > 0 }

// Key returns the canonical join key for the course.
func (c Course) Key() string { return CanonicalCode(c.Code) }

// CanonicalCode normalizes a catalog code so that "cs  2110" and "CS 2110"
// compare equal.
func CanonicalCode(code string) string {
	return cases.Upper(language.Und).String(strings.Join(strings.Fields(code), " "))
}

// SubjectPrefix returns the subject part of a code ("CS 2110" -> "CS").
func SubjectPrefix(code string) string {
	fields := strings.Fields(code)
	if len(fields) == 0 {
		return ""
	}
	return cases.Upper(language.Und).String(fields[0])
}

// Matches reports whether the course title, code or department contains the
// query, ignoring case. A blank query matches everything.
func (c Course) Matches(query string) bool {
	q := strings.TrimSpace(query)
	if q == "" {
		return true
	}
	// Casers carry state, so each call gets its own.
	fold := cases.Fold()
	q = fold.String(q)
	for _, field := range []string{c.Title, c.Code, c.Department} {
		if strings.Contains(fold.String(field), q) {
			return true
		}
	}
	return false
}
