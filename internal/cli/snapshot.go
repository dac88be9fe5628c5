package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fable2d/fable/internal/format"
	"github.com/fable2d/fable/internal/project"
	"github.com/fable2d/fable/internal/store"
)

// SnapshotOptions holds flags shared by the snapshot subcommands.
type SnapshotOptions struct {
	*RootOptions
	Database string
}

// NewSnapshotCommand creates the snapshot command group.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Archive and restore project snapshots",
		Long: `Archive project documents in a local SQLite database. Snapshots are
content-addressed: saving an unchanged project is a no-op, and any archived
state can be restored by hash.`,
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to snapshot database (required)")
	_ = cmd.MarkPersistentFlagRequired("db")

	cmd.AddCommand(newSnapshotSaveCommand(opts))
	cmd.AddCommand(newSnapshotListCommand(opts))
	cmd.AddCommand(newSnapshotRestoreCommand(opts))
	cmd.AddCommand(newSnapshotPruneCommand(opts))

	return cmd
}

// SnapshotSaveResult is the JSON payload of snapshot save.
type SnapshotSaveResult struct {
	ID       int64  `json:"id"`
	Hash     string `json:"hash"`
	Inserted bool   `json:"inserted"`
}

func newSnapshotSaveCommand(opts *SnapshotOptions) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:           "save <project.json>",
		Short:         "Archive a project document",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)

			p, code, exit, err := loadProject(args[0])
			if err != nil {
				_ = formatter.Error(code, err.Error(), nil)
				return WrapExitError(exit, "failed to load project", err)
			}

			st, err := store.Open(opts.Database)
			if err != nil {
				_ = formatter.Error(ErrCodeIO, err.Error(), nil)
				return WrapExitError(ExitCommandError, "failed to open database", err)
			}
			defer st.Close()

			id, hash, inserted, err := st.SaveSnapshot(cmdContext(cmd), p, note)
			if err != nil {
				_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
				return WrapExitError(ExitFailure, "failed to save snapshot", err)
			}

			if formatter.Format == "json" {
				return formatter.Success(SnapshotSaveResult{ID: id, Hash: hash, Inserted: inserted})
			}
			if inserted {
				fmt.Fprintf(formatter.Writer, "Archived snapshot %d (%s)\n", id, hash)
			} else {
				fmt.Fprintf(formatter.Writer, "Unchanged; already archived as snapshot %d (%s)\n", id, hash)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "free-form note stored with the snapshot")

	return cmd
}

func newSnapshotListCommand(opts *SnapshotOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List archived snapshots, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)

			st, err := store.Open(opts.Database)
			if err != nil {
				_ = formatter.Error(ErrCodeIO, err.Error(), nil)
				return WrapExitError(ExitCommandError, "failed to open database", err)
			}
			defer st.Close()

			snapshots, err := st.List(cmdContext(cmd))
			if err != nil {
				_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
				return WrapExitError(ExitFailure, "failed to list snapshots", err)
			}

			if formatter.Format == "json" {
				return formatter.Success(snapshots)
			}
			if len(snapshots) == 0 {
				fmt.Fprintln(formatter.Writer, "No snapshots archived")
				return nil
			}
			for _, sn := range snapshots {
				line := fmt.Sprintf("%4d  %s  %s  v%d  %dB  %s",
					sn.ID, sn.Hash[:12], sn.CreatedAt, sn.FormatVersion, sn.Size, sn.Name)
				if sn.Note != "" {
					line += "  " + sn.Note
				}
				fmt.Fprintln(formatter.Writer, line)
			}
			return nil
		},
	}
}

func newSnapshotRestoreCommand(opts *SnapshotOptions) *cobra.Command {
	var hash, output string

	cmd := &cobra.Command{
		Use:           "restore",
		Short:         "Write an archived snapshot back out as a project document",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)

			st, err := store.Open(opts.Database)
			if err != nil {
				_ = formatter.Error(ErrCodeIO, err.Error(), nil)
				return WrapExitError(ExitCommandError, "failed to open database", err)
			}
			defer st.Close()

			ctx := cmdContext(cmd)
			var p *project.Project
			if hash != "" {
				p, err = st.LoadByHash(ctx, hash, project.UUIDSource{})
			} else {
				p, err = st.LoadLatest(ctx, project.UUIDSource{})
			}
			if err != nil {
				_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
				return WrapExitError(ExitFailure, "failed to restore snapshot", err)
			}

			if err := format.SaveFile(p, output); err != nil {
				_ = formatter.Error(ErrCodeIO, err.Error(), nil)
				return WrapExitError(ExitCommandError, "failed to write project", err)
			}

			if formatter.Format == "json" {
				return formatter.Success(MigrateResult{Output: output, FormatVersion: format.CurrentVersion})
			}
			fmt.Fprintf(formatter.Writer, "Restored %q to %s\n", p.Name, output)
			return nil
		},
	}

	cmd.Flags().StringVar(&hash, "hash", "", "snapshot content hash (default: latest)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "destination path (required)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func newSnapshotPruneCommand(opts *SnapshotOptions) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:           "prune",
		Short:         "Delete all but the newest snapshots",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)

			st, err := store.Open(opts.Database)
			if err != nil {
				_ = formatter.Error(ErrCodeIO, err.Error(), nil)
				return WrapExitError(ExitCommandError, "failed to open database", err)
			}
			defer st.Close()

			deleted, err := st.Prune(cmdContext(cmd), keep)
			if err != nil {
				_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
				return WrapExitError(ExitFailure, "failed to prune snapshots", err)
			}

			if formatter.Format == "json" {
				return formatter.Success(map[string]int64{"deleted": deleted})
			}
			fmt.Fprintf(formatter.Writer, "Deleted %d snapshot(s), kept %d\n", deleted, keep)
			return nil
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 10, "number of newest snapshots to keep")

	return cmd
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
