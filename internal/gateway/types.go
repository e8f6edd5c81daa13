package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

/* -------- Response -------- */

type coursesResponse struct {
	Courses *[]RemoteCourse `json:"courses"`
}

type reviewsResponse struct {
	Reviews *[]RemoteReview `json:"reviews"`
}

// RemoteCourse is a course as served by GET /courses. Optional fields are
// pointers so the merge can tell "absent" from "zero".
type RemoteCourse struct {
	ID            int64
	Code          string
	Title         string
	Instructor    *string
	Term          *string
	Department    *string
	Credit        *int
	WorkloadScore *float64
	RatingScore   *float64
	AIReview      *string

	// Reviews is the embedded review list; HasReviews tells an absent list
	// from an empty one.
	Reviews    []RemoteReview
	HasReviews bool
}

type rawCourse struct {
	ID            int64           `json:"id"`
	Code          string          `json:"code"`
	Title         string          `json:"title"`
	Professor     *string         `json:"professor"`
	Instructor    *string         `json:"instructor"`
	Term          *string         `json:"term"`
	Department    *string         `json:"department"`
	Credit        FlexNumber      `json:"credit"`
	WorkloadScore FlexNumber      `json:"workload_score"`
	RatingScore   FlexNumber      `json:"rating_score"`
	AIReview      *string         `json:"ai_review"`
	Reviews       *[]RemoteReview `json:"reviews"`
}

// UnmarshalJSON accepts both "professor" (backend) and "instructor" for the
// teaching staff field; "instructor" wins when both are present.
func (c *RemoteCourse) UnmarshalJSON(b []byte) error {
	var raw rawCourse
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*c = RemoteCourse{
		ID:            raw.ID,
		Code:          strings.TrimSpace(raw.Code),
		Title:         raw.Title,
		Instructor:    firstNonNil(raw.Instructor, raw.Professor),
		Term:          raw.Term,
		Department:    raw.Department,
		Credit:        raw.Credit.Int(),
		WorkloadScore: raw.WorkloadScore.Float(),
		RatingScore:   raw.RatingScore.Float(),
		AIReview:      raw.AIReview,
	}
	if raw.Reviews != nil {
		c.Reviews = *raw.Reviews
		c.HasReviews = true
	}
	return nil
}

// RemoteReview is a review as served by GET /reviews and GET /reviews/{id}.
type RemoteReview struct {
	ID         int64
	Source     string
	Content    string
	Rating     *float64
	Difficulty *float64
	Workload   *float64
	CourseID   *int64
}

type rawReview struct {
	ID         int64      `json:"id"`
	Source     string     `json:"source"`
	Content    string     `json:"content"`
	Rating     FlexNumber `json:"rating"`
	Difficulty FlexNumber `json:"difficulty"`
	Workload   FlexNumber `json:"workload"`
	CourseID   *int64     `json:"course_id"`
	Course     *int64     `json:"course"`
}

// UnmarshalJSON accepts the back reference as "course_id" or "course".
func (r *RemoteReview) UnmarshalJSON(b []byte) error {
	var raw rawReview
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = RemoteReview{
		ID:         raw.ID,
		Source:     raw.Source,
		Content:    raw.Content,
		Rating:     raw.Rating.Float(),
		Difficulty: raw.Difficulty.Float(),
		Workload:   raw.Workload.Float(),
		CourseID:   raw.CourseID,
	}
	if r.CourseID == nil {
		r.CourseID = raw.Course
	}
	return nil
}

// FlexNumber puede venir como:
// - 4 / 4.5 (number)
// - "4" / "4.5" (string)
// - null / "" (absent)
type FlexNumber struct {
	value float64
	set   bool
}

func (n *FlexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*n = FlexNumber{}
		return nil
	}

	// string: "4.5"
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = FlexNumber{}
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid numeric string %q: %w", s, err)
		}
		*n = FlexNumber{value: v, set: true}
		return nil
	}

	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = FlexNumber{value: v, set: true}
	return nil
}

// Float returns the value, or nil when absent.
func (n FlexNumber) Float() *float64 {
	if !n.set {
		return nil
	}
	v := n.value
	return &v
}

// Int returns the value truncated to an int, or nil when absent.
func (n FlexNumber) Int() *int {
	if !n.set {
		return nil
	}
	v := int(n.value)
	return &v
}

func firstNonNil(vals ...*string) *string {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}
