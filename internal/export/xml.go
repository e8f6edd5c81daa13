package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"coursereview/internal/domain"
)

/*
<CourseCatalog generation="4">
  <Course bookmarked="true">
    <code>CS 2110</code>
    <remote_id>1</remote_id>
    <title>Object-Oriented Programming and Data Structures</title>
    <instructor>Dr. Michael Clarkson</instructor>
    <term>SP2026</term>
    <department>Computer Science</department>
    <credit>4</credit>
    <workload_score>4.2</workload_score>
    <rating_score>3.8</rating_score>
    <review_count>83</review_count>
    <ai_summary>...</ai_summary>
  </Course>
</CourseCatalog>
*/

type xmlCatalog struct {
	XMLName    xml.Name    `xml:"CourseCatalog"`
	Generation uint64      `xml:"generation,attr,omitempty"`
	Courses    []xmlCourse `xml:"Course"`
}

type xmlCourse struct {
	Bookmarked bool `xml:"bookmarked,attr"`

	Code     string `xml:"code"`
	RemoteID string `xml:"remote_id,omitempty"`
	Title    string `xml:"title,omitempty"`

	Instructor string `xml:"instructor,omitempty"`
	Term       string `xml:"term,omitempty"`
	Department string `xml:"department,omitempty"`

	Credit        string `xml:"credit,omitempty"`
	WorkloadScore string `xml:"workload_score,omitempty"`
	RatingScore   string `xml:"rating_score,omitempty"`
	ReviewCount   int    `xml:"review_count"`

	AISummary string `xml:"ai_summary,omitempty"`
}

// WriteXML writes the catalog as a single XML document. generation 0 omits
// the attribute.
func WriteXML(w io.Writer, generation uint64, courses []domain.Course) error {
	out := xmlCatalog{
		Generation: generation,
		Courses:    make([]xmlCourse, 0, len(courses)),
	}
	for _, c := range courses {
		row := xmlCourse{
			Bookmarked:    c.IsBookmarked,
			Code:          c.Code,
			Title:         oneLine(c.Title),
			Instructor:    c.Instructor,
			Term:          c.Term,
			Department:    c.Department,
			Credit:        intOrEmpty(c.Credit),
			WorkloadScore: floatOrEmpty(c.WorkloadScore),
			RatingScore:   floatOrEmpty(c.RatingScore),
			ReviewCount:   c.ReviewCount,
			AISummary:     c.AISummary,
		}
		if c.HasRemoteID() {
			row.RemoteID = strconv.FormatInt(c.ID, 10)
		}
		out.Courses = append(out.Courses, row)
	}

	b, err := xml.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("export: marshal xml: %w", err)
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		return err
	}
	return nil
}
