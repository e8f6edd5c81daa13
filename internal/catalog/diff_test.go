package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursereview/internal/domain"
	"coursereview/internal/gateway"
	"coursereview/internal/store"
)

func TestDiff(t *testing.T) {
	prev := []domain.Course{
		{Code: "CS 2110", Title: "OOP", RatingScore: 3.8, IsBookmarked: true},
		{Code: "PSYCH 1101", Title: "Intro Psych", ReviewCount: 61},
		{Code: "INFO 1998", Title: "Backend"},
	}
	next := []domain.Course{
		{ID: 1, Code: "cs 2110", Title: "oop ", RatingScore: 3.8001},
		{Code: "PSYCH 1101", Title: "Intro Psych", ReviewCount: 62},
		{ID: 2, Code: "MATH 1920", Title: "Calc"},
	}

	ch := Diff(prev, next)

	assert.Equal(t, []string{"cs 2110", "PSYCH 1101"}, ch.Updated, "remote id and review count are changes")
	assert.Equal(t, []string{"MATH 1920"}, ch.Added)
	assert.Equal(t, []string{"INFO 1998"}, ch.Removed)
	assert.False(t, ch.Empty())
}

func TestDiffIgnoresBookmarksAndNoise(t *testing.T) {
	prev := []domain.Course{{ID: 1, Code: "CS 2110", Title: "OOP", WorkloadScore: 4.2}}
	next := []domain.Course{{ID: 1, Code: "CS 2110", Title: " OOP", WorkloadScore: 4.205, IsBookmarked: true}}

	assert.True(t, Diff(prev, next).Empty())
	assert.True(t, Diff(nil, nil).Empty())
}

func TestRefreshLogsChanges(t *testing.T) {
	seedCourses := []domain.Course{{Code: "CS 2110", Title: "OOP"}}
	gw := staticGateway(
		[]gateway.RemoteCourse{{ID: 1, Code: "CS 2110", Title: "OOP"}, {ID: 2, Code: "MATH 1920"}},
		nil,
	)
	c, logger := newCatalog(t, gw, store.NewBookmarkStore(store.NewMemoryKV()), seedCourses)

	require.NoError(t, c.Refresh(context.Background()))
	logger.AssertContains(t, `"added":1`)
	logger.AssertContains(t, `"updated":1`)

	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, 2, strings.Count(logger.Output(), "Catalog refreshed"))
	assert.Equal(t, 1, strings.Count(logger.Output(), `"added"`), "an unchanged refresh logs no change counts")
}
