package store

import "coursereview/internal/domain"

const (
	BookmarksKey = "bookmarkedCourseCodes"
	ProfileKey   = "userProfile"
)

// BookmarkStore persists the bookmark set as a sorted list of canonical codes
// under BookmarksKey.
type BookmarkStore struct {
	kv KV
}

func NewBookmarkStore(kv KV) *BookmarkStore {
	return &BookmarkStore{kv: kv}
}

// Load returns the persisted set, or an empty set if nothing was saved yet.
func (s *BookmarkStore) Load() (domain.BookmarkSet, error) {
	var codes []string
	if _, err := s.kv.Get(BookmarksKey, &codes); err != nil {
		return nil, err
	}
	return domain.NewBookmarkSet(codes...), nil
}

// Save writes the full set, replacing whatever was stored.
func (s *BookmarkStore) Save(set domain.BookmarkSet) error {
	return s.kv.Set(BookmarksKey, set.Codes())
}

// Exists reports whether the key was ever written.
func (s *BookmarkStore) Exists() (bool, error) {
	var codes []string
	return s.kv.Get(BookmarksKey, &codes)
}

// ProfileStore persists the user profile under ProfileKey.
type ProfileStore struct {
	kv KV
}

func NewProfileStore(kv KV) *ProfileStore {
	return &ProfileStore{kv: kv}
}

func (s *ProfileStore) Load() (domain.UserProfile, bool, error) {
	var p domain.UserProfile
	found, err := s.kv.Get(ProfileKey, &p)
	if err != nil {
		return domain.UserProfile{}, false, err
	}
	return p, found, nil
}

func (s *ProfileStore) Save(p domain.UserProfile) error {
	return s.kv.Set(ProfileKey, p)
}
