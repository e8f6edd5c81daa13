package domain

import "sort"

// BookmarkSet is the set of bookmarked course codes, keyed by canonical code.
// It is the only source of truth for Course.IsBookmarked.
type BookmarkSet map[string]struct{}

// NewBookmarkSet builds a set from raw codes.
func NewBookmarkSet(codes ...string) BookmarkSet {
	s := make(BookmarkSet, len(codes))
	for _, c := range codes {
		s.Add(c)
	}
	return s
}

// Has reports membership for a code.
func (s BookmarkSet) Has(code string) bool {
	_, ok := s[CanonicalCode(code)]
	return ok
}

// Add inserts a code. Blank codes are ignored.
func (s BookmarkSet) Add(code string) {
	key := CanonicalCode(code)
	if key == "" {
		return
	}
	s[key] = struct{}{}
}

// Remove deletes a code.
func (s BookmarkSet) Remove(code string) {
	delete(s, CanonicalCode(code))
}

// Toggle flips membership and returns the new state.
func (s BookmarkSet) Toggle(code string) bool {
	if s.Has(code) {
		s.Remove(code)
		return false
	}
	s.Add(code)
	return true
}

// Clone returns an independent copy.
func (s BookmarkSet) Clone() BookmarkSet {
	out := make(BookmarkSet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// Codes returns the members sorted, which is also the persisted form.
func (s BookmarkSet) Codes() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Apply sets IsBookmarked on every course from set membership.
func (s BookmarkSet) Apply(courses []Course) {
	for i := range courses {
		courses[i].IsBookmarked = s.Has(courses[i].Code)
	}
}
