// Package export writes the merged catalog to files for spreadsheet import or
// upload.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"coursereview/internal/domain"
)

// Keep header order EXACT; downstream sheets address columns by position.
var catalogHeader = []string{
	"COURSE_CODE",
	"COURSE_TITLE",
	"INSTRUCTOR",
	"TERM",
	"DEPARTMENT",
	"CREDIT",
	"WORKLOAD_SCORE",
	"RATING_SCORE",
	"REVIEW_COUNT",
	"BOOKMARKED",
	"AI_SUMMARY",
	"REMOTE_ID",
}

// WriteCSV writes one row per course in catalog order.
func WriteCSV(w io.Writer, courses []domain.Course) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(catalogHeader); err != nil {
		return err
	}
	for _, c := range courses {
		if err := cw.Write(toRow(c)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func toRow(c domain.Course) []string {
	remoteID := ""
	if c.HasRemoteID() {
		remoteID = strconv.FormatInt(c.ID, 10)
	}

	return []string{
		c.Code,                             // COURSE_CODE
		oneLine(c.Title),                   // COURSE_TITLE
		c.Instructor,                       // INSTRUCTOR
		c.Term,                             // TERM
		c.Department,                       // DEPARTMENT
		intOrEmpty(c.Credit),               // CREDIT
		floatOrEmpty(c.WorkloadScore),      // WORKLOAD_SCORE
		floatOrEmpty(c.RatingScore),        // RATING_SCORE
		strconv.Itoa(c.ReviewCount),        // REVIEW_COUNT
		strconv.FormatBool(c.IsBookmarked), // BOOKMARKED
		oneLine(c.AISummary),               // AI_SUMMARY
		remoteID,                           // REMOTE_ID
	}
}

func intOrEmpty(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func floatOrEmpty(v float64) string {
	if v == 0 {
		return ""
	}
	return floatToString(v)
}

func floatToString(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// oneLine flattens line breaks so every course stays on one physical row.
func oneLine(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}
