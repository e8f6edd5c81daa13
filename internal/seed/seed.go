// Package seed holds the offline course dataset the catalog starts from.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"coursereview/internal/domain"
	"coursereview/internal/errors"
)

//go:embed courses.yaml
var embedded []byte

// Default returns the embedded seed courses. The slice is fresh on every call.
func Default() []domain.Course {
	courses, err := Parse(embedded)
	if err != nil {
		panic(fmt.Sprintf("seed: embedded dataset is invalid: %v", err))
	}
	return courses
}

// Parse decodes a YAML list of courses. Every record needs a code and codes
// must be unique once canonicalized.
func Parse(data []byte) ([]domain.Course, error) {
	var courses []domain.Course
	if err := yaml.Unmarshal(data, &courses); err != nil {
		return nil, fmt.Errorf("parsing seed courses: %w", err)
	}

	seen := make(map[string]struct{}, len(courses))
	for i, c := range courses {
		key := c.Key()
		if key == "" {
			return nil, errors.NewValidationError(fmt.Sprintf("[%d].code", i), c.Code, "required")
		}
		if _, dup := seen[key]; dup {
			return nil, errors.NewValidationError(fmt.Sprintf("[%d].code", i), c.Code, "duplicate course code")
		}
		seen[key] = struct{}{}
	}
	return courses, nil
}

// LoadFile reads a seed dataset from disk, for deployments that ship their own.
func LoadFile(path string) ([]domain.Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return Parse(data)
}
