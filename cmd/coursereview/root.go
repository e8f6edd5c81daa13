package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "coursereview",
		Short: "Browse courses, reviews and bookmarks",
		Long: `coursereview merges the course-review backend with a bundled seed
catalog, keeps your bookmarks and profile in a local state file, and exports
the merged catalog as CSV or XML.

Settings come from COURSEREVIEW_* environment variables, .env files and an
optional .coursereview.yaml.`,
		PersistentPreRunE: a.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default is ./.coursereview.yaml or $HOME/.coursereview.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newCoursesCmd(a),
		newReviewsCmd(a),
		newBookmarkCmd(a),
		newProfileCmd(a),
		newExportCmd(a),
	)
	return root
}
