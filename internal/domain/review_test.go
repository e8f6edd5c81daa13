package domain

import (
	"reflect"
	"testing"
)

func int64Ptr(v int64) *int64 { return &v }

func TestCountByCourse(t *testing.T) {
	reviews := []Review{
		{ID: 1, CourseID: int64Ptr(1)},
		{ID: 2, CourseID: int64Ptr(1)},
		{ID: 3, CourseID: int64Ptr(2)},
		{ID: 4},
	}

	expected := map[int64]int{1: 2, 2: 1}
	if got := CountByCourse(reviews); !reflect.DeepEqual(got, expected) {
		t.Errorf("CountByCourse() = %v; expected %v", got, expected)
	}
}

func TestReviewsBySource(t *testing.T) {
	reviews := []Review{
		{ID: 1, Source: "CU Reviews"},
		{ID: 2, Source: "Class Roster"},
		{ID: 3, Source: "cu reviews "},
	}

	if got := ReviewsBySource(reviews, ""); len(got) != 3 {
		t.Errorf("Expected all 3 reviews for empty source, got %d", len(got))
	}

	got := ReviewsBySource(reviews, "CU Reviews")
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("Expected reviews 1 and 3, got %+v", got)
	}
}

func TestUserProfileIsZero(t *testing.T) {
	if !(UserProfile{}).IsZero() {
		t.Error("Expected empty profile to be zero")
	}
	if (UserProfile{Name: "Ezra Cornell"}).IsZero() {
		t.Error("Expected named profile not to be zero")
	}
}
