package reviewcache

import "coursereview/internal/domain"

// Status is the load state of one course's reviews.
type Status string

const (
	// StatusIdle means nothing has been requested, or the entry was
	// invalidated or expired.
	StatusIdle Status = "Idle"

	// StatusLoading means a fetch is in flight.
	StatusLoading Status = "Loading"

	// StatusLoaded means the last fetch succeeded.
	StatusLoaded Status = "Loaded"

	// StatusFailed means the last fetch failed; Err says why.
	StatusFailed Status = "Failed"
)

func (s Status) String() string {
	return string(s)
}

// IsFinished reports whether the status is the outcome of a fetch.
func (s Status) IsFinished() bool {
	return s == StatusLoaded || s == StatusFailed
}

// State is a point-in-time view of one course's reviews. Reviews is only set
// when Status is StatusLoaded and Err only when it is StatusFailed.
type State struct {
	CourseID int64
	Status   Status
	Reviews  []domain.Review
	Err      error
}

// BySource returns the loaded reviews from one source ("CU Reviews",
// "Class Roster"). An empty source returns all of them.
func (s State) BySource(source string) []domain.Review {
	return domain.ReviewsBySource(s.Reviews, source)
}

// Sources lists the distinct review sources in first-seen order.
func (s State) Sources() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range s.Reviews {
		if _, ok := seen[r.Source]; ok || r.Source == "" {
			continue
		}
		seen[r.Source] = struct{}{}
		out = append(out, r.Source)
	}
	return out
}
