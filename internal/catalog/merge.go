package catalog

import (
	"fmt"
	"strings"

	"coursereview/internal/domain"
	"coursereview/internal/gateway"
	"coursereview/internal/mappers"
)

// SeedPolicy decides what happens to seed records the remote catalog does
// not contain.
type SeedPolicy int

const (
	// KeepSeedOnly keeps seed-only records, ahead of the remote ones.
	KeepSeedOnly SeedPolicy = iota
	// DropSeedOnly publishes remote-backed records only.
	DropSeedOnly
)

func (p SeedPolicy) String() string {
	switch p {
	case KeepSeedOnly:
		return "keep"
	case DropSeedOnly:
		return "drop"
	default:
		return fmt.Sprintf("SeedPolicy(%d)", int(p))
	}
}

// ParseSeedPolicy accepts "keep" or "drop".
func ParseSeedPolicy(s string) (SeedPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "keep":
		return KeepSeedOnly, nil
	case "drop":
		return DropSeedOnly, nil
	default:
		return KeepSeedOnly, fmt.Errorf("unknown seed policy %q (want keep or drop)", s)
	}
}

// MergeInput is everything one merge needs.
type MergeInput struct {
	Remote []gateway.RemoteCourse

	// Reviews is the aggregate review list. It is only consulted when
	// CountReviews is set.
	Reviews      []gateway.RemoteReview
	CountReviews bool

	Seed      []domain.Course
	Bookmarks domain.BookmarkSet
	Policy    SeedPolicy
}

// MergeResult is the merged course list plus the remote codes that were
// dropped as duplicates.
type MergeResult struct {
	Courses    []domain.Course
	Duplicates []string
}

// Merge reconciles the remote catalog with the seed dataset and the bookmark
// set. It is pure: the same input always yields the same output.
//
// Records join on canonical code. For each remote record the same-code seed
// record fills the fields the payload omitted; seed-only records follow the
// policy and come first, in seed order; remote records keep remote order.
// The first remote record for a code wins.
func Merge(in MergeInput) MergeResult {
	seedByKey := make(map[string]*domain.Course, len(in.Seed))
	for i := range in.Seed {
		k := in.Seed[i].Key()
		if _, ok := seedByKey[k]; !ok {
			seedByKey[k] = &in.Seed[i]
		}
	}

	var counts map[int64]int
	if in.CountReviews {
		counts = domain.CountByCourse(mappers.ReviewsFromRemote(in.Reviews))
	}

	var res MergeResult
	remote := make([]domain.Course, 0, len(in.Remote))
	seen := make(map[string]struct{}, len(in.Remote))
	for _, r := range in.Remote {
		k := domain.CanonicalCode(r.Code)
		if _, dup := seen[k]; dup {
			res.Duplicates = append(res.Duplicates, r.Code)
			continue
		}
		seen[k] = struct{}{}

		c := mappers.MergeCourse(r, seedByKey[k])
		if in.CountReviews {
			c.ReviewCount = counts[r.ID]
		}
		remote = append(remote, c)
	}

	out := make([]domain.Course, 0, len(in.Seed)+len(remote))
	if in.Policy == KeepSeedOnly {
		emitted := make(map[string]struct{}, len(in.Seed))
		for _, s := range in.Seed {
			k := s.Key()
			if _, ok := seen[k]; ok {
				continue
			}
			if _, ok := emitted[k]; ok {
				continue
			}
			emitted[k] = struct{}{}
			out = append(out, mappers.FromSeed(s))
		}
	}
	out = append(out, remote...)

	bookmarks := in.Bookmarks
	if bookmarks == nil {
		bookmarks = domain.NewBookmarkSet()
	}
	bookmarks.Apply(out)

	res.Courses = out
	return res
}

// initialCourses is the starting list: every seed record with bookmarks
// applied.
func initialCourses(seed []domain.Course, bookmarks domain.BookmarkSet) []domain.Course {
	out := make([]domain.Course, 0, len(seed))
	for _, s := range seed {
		out = append(out, mappers.FromSeed(s))
	}
	bookmarks.Apply(out)
	return out
}
