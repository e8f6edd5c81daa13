package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"coursereview/internal/catalog"
	"coursereview/internal/domain"
)

func newCoursesCmd(a *app) *cobra.Command {
	var (
		saved   bool
		search  string
		offline bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "courses",
		Short: "Refresh the catalog and list courses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := a.refreshed(cmd.Context(), cmd.ErrOrStderr(), offline)
			if err != nil {
				return err
			}
			defer cat.Close()

			snap := cat.Snapshot()
			if asJSON && !saved && search == "" {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(snap)
			}

			courses := selectCourses(snap, saved, search)
			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(courses)
			}
			if len(courses) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No courses found.")
				return nil
			}
			renderCourses(cmd.OutOrStdout(), courses)
			return nil
		},
	}

	cmd.Flags().BoolVar(&saved, "saved", false, "only bookmarked courses")
	cmd.Flags().StringVar(&search, "search", "", "filter by code, title or department")
	cmd.Flags().BoolVar(&offline, "offline", false, "skip the refresh and use local data")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func selectCourses(snap *catalog.Snapshot, saved bool, search string) []domain.Course {
	var courses []domain.Course
	if search != "" {
		courses = snap.Search(search)
	} else {
		courses = snap.Courses()
	}
	if !saved {
		return courses
	}

	out := courses[:0]
	for _, c := range courses {
		if c.IsBookmarked {
			out = append(out, c)
		}
	}
	return out
}

func renderCourses(w io.Writer, courses []domain.Course) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"", "Code", "Title", "Instructor", "Term", "Credits", "Rating", "Workload", "Reviews"})
	table.SetAutoWrapText(false)

	for _, c := range courses {
		mark := ""
		if c.IsBookmarked {
			mark = "*"
		}
		table.Append([]string{
			mark,
			c.Code,
			c.Title,
			c.Instructor,
			c.Term,
			dashIfZero(strconv.Itoa(c.Credit), c.Credit == 0),
			score(c.RatingScore),
			score(c.WorkloadScore),
			strconv.Itoa(c.ReviewCount),
		})
	}
	table.Render()
}

func score(v float64) string {
	return dashIfZero(strconv.FormatFloat(v, 'f', 1, 64), v == 0)
}

func dashIfZero(s string, zero bool) string {
	if zero {
		return "-"
	}
	return s
}
