package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"coursereview/internal/errors"
	"coursereview/internal/reviewcache"
)

func newReviewsCmd(a *app) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "reviews <course-id|course-code>...",
		Short: "Show reviews for one or more courses",
		Example: `  coursereview reviews 1
  coursereview reviews "CS 2110" --source "CU Reviews"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := a.resolveCourseIDs(cmd, args)
			if err != nil {
				return err
			}

			cache := a.reviewCache()
			states := cache.LoadMany(cmd.Context(), ids)

			out := cmd.OutOrStdout()
			failed := 0
			for i, st := range states {
				if i > 0 {
					fmt.Fprintln(out)
				}
				if st.Status == reviewcache.StatusFailed {
					failed++
					warn(cmd.ErrOrStderr(), "Reviews for course %d could not be loaded: %v", st.CourseID, st.Err)
					continue
				}
				renderReviews(out, st, source)
			}
			if failed == len(states) {
				return fmt.Errorf("no reviews could be loaded")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", `only reviews from this source, e.g. "CU Reviews"`)
	return cmd
}

// resolveCourseIDs accepts remote ids as-is and looks course codes up in a
// refreshed catalog.
func (a *app) resolveCourseIDs(cmd *cobra.Command, args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	var codes []int

	for i, arg := range args {
		id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
		if err == nil && id > 0 {
			ids = append(ids, id)
			continue
		}
		ids = append(ids, 0)
		codes = append(codes, i)
	}
	if len(codes) == 0 {
		return ids, nil
	}

	cat, err := a.refreshed(cmd.Context(), cmd.ErrOrStderr(), false)
	if err != nil {
		return nil, err
	}
	defer cat.Close()

	for _, i := range codes {
		c, ok := cat.Lookup(args[i])
		if !ok {
			return nil, errors.NewNotFoundError("course", args[i])
		}
		if !c.HasRemoteID() {
			return nil, errors.NewValidationError("course", args[i], c.Code+" has no reviews on the server")
		}
		ids[i] = c.ID
	}
	return ids, nil
}

func renderReviews(w io.Writer, st reviewcache.State, source string) {
	reviews := st.BySource(source)
	heading(w, fmt.Sprintf("Course %d: %d review(s)", st.CourseID, len(reviews)))
	if source == "" {
		fmt.Fprintf(w, "Sources: %s\n", joinOrDash(st.Sources()))
	}
	if len(reviews) == 0 {
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Source", "Rating", "Difficulty", "Workload", "Review"})
	table.SetRowLine(true)

	for _, r := range reviews {
		table.Append([]string{
			r.Source,
			optScore(r.Rating),
			optScore(r.Difficulty),
			optScore(r.Workload),
			r.Content,
		})
	}
	table.Render()
}

func optScore(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

