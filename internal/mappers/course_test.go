package mappers

import (
	"testing"

	"coursereview/internal/domain"
	"coursereview/internal/gateway"
)

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func TestMergeCourseFillsFromSeed(t *testing.T) {
	seed := &domain.Course{
		Code:          "CS 2110",
		Title:         "Old title",
		Instructor:    "Michael Clarkson",
		Term:          "SP2026",
		Department:    "Computer Science",
		Credit:        4,
		WorkloadScore: 4.1,
		RatingScore:   3.9,
		ReviewCount:   83,
		IsBookmarked:  true,
	}
	remote := gateway.RemoteCourse{
		ID:       7,
		Code:     "CS 2110",
		Title:    "OOP & Data Structures",
		AIReview: strPtr("Heavy but rewarding."),
	}

	got := MergeCourse(remote, seed)

	if got.ID != 7 {
		t.Errorf("Expected ID 7, got %d", got.ID)
	}
	if got.Title != "OOP & Data Structures" {
		t.Errorf("Expected remote title, got %q", got.Title)
	}
	if got.Instructor != "Michael Clarkson" || got.Term != "SP2026" {
		t.Errorf("Expected seed instructor/term, got %q/%q", got.Instructor, got.Term)
	}
	if got.Department != "Computer Science" {
		t.Errorf("Expected seed department, got %q", got.Department)
	}
	if got.Credit != 4 || got.WorkloadScore != 4.1 || got.RatingScore != 3.9 {
		t.Errorf("Expected seed numbers, got credit=%d workload=%v rating=%v", got.Credit, got.WorkloadScore, got.RatingScore)
	}
	if got.ReviewCount != 83 {
		t.Errorf("Expected seed review count 83, got %d", got.ReviewCount)
	}
	if got.AISummary != "Heavy but rewarding." {
		t.Errorf("Expected ai summary, got %q", got.AISummary)
	}
	if got.IsBookmarked {
		t.Error("Expected IsBookmarked to be left for the catalog")
	}
}

func TestMergeCourseRemoteFieldsWin(t *testing.T) {
	seed := &domain.Course{Code: "CS 2110", Instructor: "Seed", Credit: 4, ReviewCount: 83}
	remote := gateway.RemoteCourse{
		ID:         7,
		Code:       "CS 2110",
		Title:      "OOP",
		Instructor: strPtr("Remote"),
		Credit:     intPtr(3),
		Reviews:    []gateway.RemoteReview{{ID: 1}, {ID: 2}},
		HasReviews: true,
	}

	got := MergeCourse(remote, seed)

	if got.Instructor != "Remote" {
		t.Errorf("Expected remote instructor, got %q", got.Instructor)
	}
	if got.Credit != 3 {
		t.Errorf("Expected remote credit 3, got %d", got.Credit)
	}
	if got.ReviewCount != 2 {
		t.Errorf("Expected embedded review count 2, got %d", got.ReviewCount)
	}
}

func TestMergeCourseWithoutSeed(t *testing.T) {
	remote := gateway.RemoteCourse{
		ID:          9,
		Code:        "MATH 1920",
		Title:       "Multivariable Calculus",
		RatingScore: floatPtr(4.2),
	}

	got := MergeCourse(remote, nil)

	if got.Instructor != "" || got.Term != "" || got.Credit != 0 {
		t.Errorf("Expected defaults, got %+v", got)
	}
	if got.Department != "MATH" {
		t.Errorf("Expected department derived from prefix, got %q", got.Department)
	}
	if got.RatingScore != 4.2 {
		t.Errorf("Expected rating 4.2, got %v", got.RatingScore)
	}
	if got.ReviewCount != 0 {
		t.Errorf("Expected review count 0, got %d", got.ReviewCount)
	}
}

func TestMergeCourseEmptyEmbeddedReviews(t *testing.T) {
	seed := &domain.Course{Code: "INFO 1998", ReviewCount: 12}
	remote := gateway.RemoteCourse{ID: 3, Code: "INFO 1998", HasReviews: true}

	if got := MergeCourse(remote, seed); got.ReviewCount != 0 {
		t.Errorf("Expected an explicit empty list to count 0, got %d", got.ReviewCount)
	}
}

func TestFromSeed(t *testing.T) {
	got := FromSeed(domain.Course{Code: "psych 1101", IsBookmarked: true})

	if got.IsBookmarked {
		t.Error("Expected IsBookmarked to be cleared")
	}
	if got.Department != "PSYCH" {
		t.Errorf("Expected department PSYCH, got %q", got.Department)
	}
}

func TestReviewsFromRemote(t *testing.T) {
	courseID := int64(42)
	in := []gateway.RemoteReview{
		{ID: 1, Source: "CU Reviews", Content: "Great", Rating: floatPtr(5), CourseID: &courseID},
		{ID: 2, Source: "Class Roster", Content: "Fine"},
	}

	got := ReviewsFromRemote(in)

	if len(got) != 2 {
		t.Fatalf("Expected 2 reviews, got %d", len(got))
	}
	if got[0].ID != 1 || got[0].Source != "CU Reviews" || *got[0].Rating != 5 || *got[0].CourseID != 42 {
		t.Errorf("Unexpected first review: %+v", got[0])
	}
	if got[1].Rating != nil || got[1].CourseID != nil {
		t.Errorf("Expected absent optionals on second review: %+v", got[1])
	}

	if empty := ReviewsFromRemote(nil); empty == nil || len(empty) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", empty)
	}
}
