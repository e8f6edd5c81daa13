package mappers

import (
	"coursereview/internal/domain"
	"coursereview/internal/gateway"
)

// MergeCourse maps a remote course onto the domain model, filling the fields
// the payload omitted from the same-code seed record. seed may be nil.
//
// Remote always wins for ID, Code, Title and AISummary. IsBookmarked is left
// false; the catalog derives it from the bookmark set.
func MergeCourse(r gateway.RemoteCourse, seed *domain.Course) domain.Course {
	var s domain.Course
	if seed != nil {
		s = *seed
	}

	c := domain.Course{
		ID:            r.ID,
		Code:          r.Code,
		Title:         r.Title,
		Instructor:    pickString(r.Instructor, s.Instructor),
		Term:          pickString(r.Term, s.Term),
		Department:    pickString(r.Department, s.Department),
		Credit:        pickInt(r.Credit, s.Credit),
		WorkloadScore: pickFloat(r.WorkloadScore, s.WorkloadScore),
		RatingScore:   pickFloat(r.RatingScore, s.RatingScore),
		ReviewCount:   s.ReviewCount,
	}
	if r.AIReview != nil {
		c.AISummary = *r.AIReview
	}
	if c.Department == "" {
		c.Department = domain.SubjectPrefix(c.Code)
	}
	if r.HasReviews {
		c.ReviewCount = len(r.Reviews)
	}
	return c
}

// FromSeed prepares a seed-only record for publication.
func FromSeed(s domain.Course) domain.Course {
	s.IsBookmarked = false
	if s.Department == "" {
		s.Department = domain.SubjectPrefix(s.Code)
	}
	return s
}

func ReviewFromRemote(r gateway.RemoteReview) domain.Review {
	return domain.Review{
		ID:         r.ID,
		Source:     r.Source,
		Content:    r.Content,
		Rating:     r.Rating,
		Difficulty: r.Difficulty,
		Workload:   r.Workload,
		CourseID:   r.CourseID,
	}
}

func ReviewsFromRemote(rs []gateway.RemoteReview) []domain.Review {
	out := make([]domain.Review, 0, len(rs))
	for _, r := range rs {
		out = append(out, ReviewFromRemote(r))
	}
	return out
}

func pickString(remote *string, seed string) string {
	if remote != nil {
		return *remote
	}
	return seed
}

func pickInt(remote *int, seed int) int {
	if remote != nil {
		return *remote
	}
	return seed
}

func pickFloat(remote *float64, seed float64) float64 {
	if remote != nil {
		return *remote
	}
	return seed
}
