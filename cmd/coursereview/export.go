package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"coursereview/internal/errors"
	"coursereview/internal/export"
	"coursereview/internal/sftpclient"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		outPath    string
		format     string
		uploadSFTP bool
		offline    bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the merged catalog to a CSV or XML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := export.FormatForPath(outPath)
			if format != "" {
				var err error
				if f, err = export.ParseFormat(format); err != nil {
					return err
				}
			}
			if uploadSFTP && !a.cfg.SFTP.Enabled() {
				return errors.NewConfigError("sftp", "set COURSEREVIEW_SFTP_HOST to upload", nil)
			}

			cat, err := a.refreshed(cmd.Context(), cmd.ErrOrStderr(), offline)
			if err != nil {
				return err
			}
			defer cat.Close()

			snap := cat.Snapshot()
			if err := export.WriteFile(outPath, f, snap.Generation(), snap.Courses()); err != nil {
				return err
			}
			a.logger.Info().
				Str("path", outPath).
				Str("format", string(f)).
				Int("courses", snap.Len()).
				Uint64("generation", snap.Generation()).
				Msg("Catalog exported")
			success(cmd.OutOrStdout(), "Wrote %d courses to %s", snap.Len(), outPath)

			if !uploadSFTP {
				return nil
			}

			s := a.cfg.SFTP
			upCfg := sftpclient.Config{
				Host:           s.Host,
				Port:           s.Port,
				User:           s.User,
				Pass:           s.Pass,
				RemoteDir:      s.Dir,
				KnownHostsFile: s.KnownHosts,
			}
			upCtx, upCancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer upCancel()

			remoteName := filepath.Base(outPath)
			if err := sftpclient.UploadFile(upCtx, upCfg, outPath, remoteName); err != nil {
				return fmt.Errorf("upload export: %w", err)
			}
			success(cmd.OutOrStdout(), "Uploaded to sftp://%s:%d%s", s.Host, s.Port, filepath.ToSlash(filepath.Join(s.Dir, remoteName)))
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "coursereview-catalog.csv", "output file path")
	cmd.Flags().StringVar(&format, "format", "", "csv or xml (default: from the --out extension)")
	cmd.Flags().BoolVar(&uploadSFTP, "sftp", false, "upload the export via SFTP")
	cmd.Flags().BoolVar(&offline, "offline", false, "skip the refresh and use local data")
	return cmd
}
