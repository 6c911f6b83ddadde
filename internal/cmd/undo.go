package cmd

import (
	"errors"
	"fmt"
	"time"

	oplog "github.com/Digital-Shane/otr-tidy/internal/log"
	"github.com/Digital-Shane/otr-tidy/internal/tui/report"
	"github.com/apex/log"
	"github.com/spf13/cobra"
)

func newUndoCommand(opts *options) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Revert the most recent rename session",
		Long: `Revert the renames of the most recent session that has not been undone yet.

Renames are reverted newest first. A file is never moved back when its
original name is taken again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := oplog.DefaultDir()
			if err != nil {
				return err
			}
			if list {
				return listSessions(cmd, dir)
			}
			return undoLatest(cmd, dir)
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "List recorded sessions instead of undoing")
	return cmd
}

func listSessions(cmd *cobra.Command, dir string) error {
	summaries, err := oplog.GetSessionSummaries(dir)
	if err != nil {
		return fmt.Errorf("failed to read log sessions: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(summaries) == 0 {
		fmt.Fprintln(out, "No rename sessions recorded.")
		return nil
	}
	fmt.Fprintln(out, report.Sessions(summaries))
	return nil
}

func undoLatest(cmd *cobra.Command, dir string) error {
	out := cmd.OutOrStdout()

	session, path, err := oplog.FindLatestSession(dir)
	if errors.Is(err, oplog.ErrNoSession) {
		fmt.Fprintln(out, "Nothing to undo.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read log sessions: %w", err)
	}

	successful, failed, errs := oplog.UndoSession(session)
	for _, err := range errs {
		log.WithError(err).Warn("undo failed")
	}
	if err := oplog.MarkUndone(path, session, time.Now()); err != nil {
		return fmt.Errorf("failed to update %s: %w", path, err)
	}

	fmt.Fprintf(out, "Reverted %d rename%s from %s.\n", successful, plural(successful),
		session.Metadata.Timestamp.Local().Format("2006-01-02 15:04"))
	if failed > 0 {
		return fmt.Errorf("%d rename%s could not be reverted", failed, plural(failed))
	}
	return nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
