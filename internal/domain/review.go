package domain

import "strings"

// Review is a single piece of feedback attached to a course. Reviews are
// replaced wholesale on re-fetch and never edited in place.
type Review struct {
	ID         int64    `json:"id"`
	Source     string   `json:"source"` // "CU Reviews", "Class Roster", ...
	Content    string   `json:"content"`
	Rating     *float64 `json:"rating,omitempty"`
	Difficulty *float64 `json:"difficulty,omitempty"`
	Workload   *float64 `json:"workload,omitempty"`

	// CourseID is a lookup-only back reference.
	CourseID *int64 `json:"courseId,omitempty"`
}

// ReviewsBySource returns the reviews whose source matches, ignoring case and
// surrounding whitespace. An empty source returns all reviews.
func ReviewsBySource(reviews []Review, source string) []Review {
	source = strings.TrimSpace(source)
	if source == "" {
		return reviews
	}
	out := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		if strings.EqualFold(strings.TrimSpace(r.Source), source) {
			out = append(out, r)
		}
	}
	return out
}

// CountByCourse groups reviews by their course back reference. Reviews
// without one are ignored.
func CountByCourse(reviews []Review) map[int64]int {
	counts := make(map[int64]int)
	for _, r := range reviews {
		if r.CourseID == nil {
			continue
		}
		counts[*r.CourseID]++
	}
	return counts
}
