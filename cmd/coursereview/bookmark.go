package main

import (
	"github.com/spf13/cobra"

	"coursereview/internal/errors"
)

func newBookmarkCmd(a *app) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "bookmark <course-code>",
		Short: "Save or unsave a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.refreshed(cmd.Context(), cmd.ErrOrStderr(), offline)
			if err != nil {
				return err
			}
			defer cat.Close()

			if _, ok := cat.Lookup(args[0]); !ok {
				return errors.NewNotFoundError("course", args[0])
			}
			if err := cat.ToggleBookmark(args[0]); err != nil {
				return err
			}

			c, _ := cat.Lookup(args[0])
			if c.IsBookmarked {
				success(cmd.OutOrStdout(), "Saved %s", c.Code)
			} else {
				success(cmd.OutOrStdout(), "Removed %s from saved courses", c.Code)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "skip the refresh and use local data")
	return cmd
}
