package main

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"coursereview/internal/domain"
	"coursereview/internal/store"
)

func newProfileCmd(a *app) *cobra.Command {
	var p domain.UserProfile

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update your profile",
		Example: `  coursereview profile
  coursereview profile --name "Ada" --class-year "Class of 2027" --interest AI --interest Systems`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ps := store.NewProfileStore(a.kv)
			current, _, err := ps.Load()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			changed := false
			set := func(name string, dst *string, v string) {
				if flags.Changed(name) {
					*dst = v
					changed = true
				}
			}
			set("name", &current.Name, p.Name)
			set("class-year", &current.ClassYear, p.ClassYear)
			set("major", &current.Major, p.Major)
			set("minor", &current.Minor, p.Minor)
			if flags.Changed("interest") {
				current.AreasOfInterest = p.AreasOfInterest
				changed = true
			}
			if flags.Changed("preference") {
				current.LearningPreferences = p.LearningPreferences
				changed = true
			}

			if changed {
				if err := ps.Save(current); err != nil {
					return err
				}
				success(cmd.OutOrStdout(), "Profile saved")
			}

			if current.IsZero() {
				fmt.Fprintln(cmd.OutOrStdout(), "No profile yet. Set one with --name, --class-year and --major.")
				return nil
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetBorder(false)
			table.SetAutoWrapText(false)
			table.AppendBulk([][]string{
				{"Name", current.Name},
				{"Class", current.ClassYear},
				{"Major", current.Major},
				{"Minor", current.Minor},
				{"Interests", joinOrDash(current.AreasOfInterest)},
				{"Learning", joinOrDash(current.LearningPreferences)},
			})
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&p.Name, "name", "", "your name")
	cmd.Flags().StringVar(&p.ClassYear, "class-year", "", `e.g. "Class of 2027"`)
	cmd.Flags().StringVar(&p.Major, "major", "", "major")
	cmd.Flags().StringVar(&p.Minor, "minor", "", "minor")
	cmd.Flags().StringSliceVar(&p.AreasOfInterest, "interest", nil, "area of interest (repeatable)")
	cmd.Flags().StringSliceVar(&p.LearningPreferences, "preference", nil, "learning preference (repeatable)")
	return cmd
}
