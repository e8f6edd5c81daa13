package export

import (
	"bytes"
	"encoding/csv"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"coursereview/internal/domain"
	"coursereview/internal/errors"
)

func testCourses() []domain.Course {
	return []domain.Course{
		{
			ID:            1,
			Code:          "CS 2110",
			Title:         "OOP & Data Structures",
			Instructor:    "Dr. Michael Clarkson",
			Term:          "SP2026",
			Department:    "Computer Science",
			Credit:        4,
			WorkloadScore: 4.2,
			RatingScore:   3.8,
			ReviewCount:   3,
			AISummary:     "Heavy workload,\nbut rewarding.",
			IsBookmarked:  true,
		},
		{
			Code:        "PSYCH 1101",
			Title:       "Introduction to Psychology",
			Department:  "Psychology",
			ReviewCount: 61,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, testCourses()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	if !strings.Contains(buf.String(), "\r\n") {
		t.Error("Expected CRLF line endings")
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse generated CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(catalogHeader, ",") {
		t.Errorf("CSV header is incorrect: %v", rows[0])
	}

	want := []string{"CS 2110", "OOP & Data Structures", "Dr. Michael Clarkson", "SP2026", "Computer Science", "4", "4.2", "3.8", "3", "true", "Heavy workload, but rewarding.", "1"}
	if strings.Join(rows[1], "|") != strings.Join(want, "|") {
		t.Errorf("First course row = %v, want %v", rows[1], want)
	}

	seedOnly := rows[2]
	if seedOnly[5] != "" || seedOnly[6] != "" || seedOnly[11] != "" {
		t.Errorf("Expected empty credit, workload and remote id for seed-only row, got %v", seedOnly)
	}
	if seedOnly[8] != "61" || seedOnly[9] != "false" {
		t.Errorf("Unexpected review count or bookmark: %v", seedOnly)
	}
}

func TestWriteXML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXML(&buf, 4, testCourses()); err != nil {
		t.Fatalf("WriteXML() error = %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, xml.Header) {
		t.Error("Expected XML header")
	}
	if !strings.Contains(out, `<CourseCatalog generation="4">`) {
		t.Errorf("Expected generation attribute, got:\n%s", out)
	}

	var parsed xmlCatalog
	if err := xml.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Generated XML does not parse: %v", err)
	}
	if len(parsed.Courses) != 2 {
		t.Fatalf("Expected 2 courses, got %d", len(parsed.Courses))
	}
	cs := parsed.Courses[0]
	if !cs.Bookmarked || cs.RemoteID != "1" || cs.Title != "OOP & Data Structures" || cs.ReviewCount != 3 {
		t.Errorf("Unexpected first course: %+v", cs)
	}
	if parsed.Courses[1].RemoteID != "" || parsed.Courses[1].Bookmarked {
		t.Errorf("Unexpected seed-only course: %+v", parsed.Courses[1])
	}
}

func TestParseFormat(t *testing.T) {
	testCases := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{" XML ", FormatXML, false},
		{"", FormatCSV, false},
		{"json", "", true},
	}

	for _, tc := range testCases {
		got, err := ParseFormat(tc.input)
		if tc.wantErr {
			if !errors.Is(err, errors.ErrInvalidInput) {
				t.Errorf("ParseFormat(%q) error = %v, want invalid input", tc.input, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", tc.input, got, err, tc.want)
		}
	}
}

func TestFormatForPath(t *testing.T) {
	if FormatForPath("out/catalog.XML") != FormatXML {
		t.Error("Expected .XML to map to xml")
	}
	if FormatForPath("catalog.csv") != FormatCSV || FormatForPath("catalog") != FormatCSV {
		t.Error("Expected csv default")
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "catalog.xml")

	if err := WriteFile(path, FormatForPath(path), 2, testCourses()); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}
	if !strings.Contains(string(content), "<code>PSYCH 1101</code>") {
		t.Errorf("Export is missing a course:\n%s", content)
	}
}
