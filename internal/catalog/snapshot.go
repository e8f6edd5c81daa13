package catalog

import (
	"encoding/json"

	"coursereview/internal/domain"
)

// Snapshot is one immutable published state of the catalog. Every mutation
// publishes a new Snapshot with a higher Generation; existing snapshots never
// change.
type Snapshot struct {
	generation uint64
	courses    []domain.Course
}

func newSnapshot(generation uint64, courses []domain.Course) *Snapshot {
	return &Snapshot{generation: generation, courses: courses}
}

// Generation increases by one with every published snapshot, starting at 1.
func (s *Snapshot) Generation() uint64 { return s.generation }

// Len returns the number of courses.
func (s *Snapshot) Len() int { return len(s.courses) }

// Courses returns a copy of the ordered course list.
func (s *Snapshot) Courses() []domain.Course {
	out := make([]domain.Course, len(s.courses))
	copy(out, s.courses)
	return out
}

// Lookup finds a course by code, compared canonically.
func (s *Snapshot) Lookup(code string) (domain.Course, bool) {
	if i := s.index(code); i >= 0 {
		return s.courses[i], true
	}
	return domain.Course{}, false
}

// Bookmarked returns the bookmarked courses in catalog order.
func (s *Snapshot) Bookmarked() []domain.Course {
	return s.filter(func(c domain.Course) bool { return c.IsBookmarked })
}

// Search returns the courses whose title, code or department contains query,
// ignoring case. A blank query returns everything.
func (s *Snapshot) Search(query string) []domain.Course {
	return s.filter(func(c domain.Course) bool { return c.Matches(query) })
}

// MarshalJSON encodes the course list only, so two snapshots with the same
// content encode identically regardless of generation.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.courses)
}

func (s *Snapshot) index(code string) int {
	key := domain.CanonicalCode(code)
	if key == "" {
		return -1
	}
	for i, c := range s.courses {
		if c.Key() == key {
			return i
		}
	}
	return -1
}

func (s *Snapshot) filter(keep func(domain.Course) bool) []domain.Course {
	out := make([]domain.Course, 0, len(s.courses))
	for _, c := range s.courses {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// withBookmark returns a copy of s with the bookmark flag of entry i set.
func (s *Snapshot) withBookmark(generation uint64, i int, on bool) *Snapshot {
	courses := s.Courses()
	courses[i].IsBookmarked = on
	return newSnapshot(generation, courses)
}
