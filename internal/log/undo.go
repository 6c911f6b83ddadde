package log

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrNoSession is returned when there is no session left to undo.
var ErrNoSession = errors.New("no undoable session found")

type UndoResult struct {
	Operation OperationLog
	Success   bool
	Error     error
}

func UndoOperation(op OperationLog) UndoResult {
	result := UndoResult{
		Operation: op,
		Success:   false,
	}

	switch op.Type {
	case OpRename:
		if op.DestPath == "" {
			result.Error = fmt.Errorf("cannot undo rename: destination path missing")
			return result
		}

		if _, err := os.Stat(op.DestPath); os.IsNotExist(err) {
			result.Error = fmt.Errorf("cannot undo rename: file %s not found", op.DestPath)
			return result
		}

		// Never overwrite on the way back either
		if _, err := os.Stat(op.SourcePath); err == nil {
			result.Error = fmt.Errorf("cannot undo rename: original path %s already exists", op.SourcePath)
			return result
		}

		if err := os.Rename(op.DestPath, op.SourcePath); err != nil {
			result.Error = fmt.Errorf("failed to rename %s back to %s: %w", op.DestPath, op.SourcePath, err)
			return result
		}

		result.Success = true

	default:
		result.Error = fmt.Errorf("unknown operation type: %s", op.Type)
	}

	return result
}

// UndoSession reverts the successful operations of a session, newest first.
func UndoSession(session *LogSession) (successful int, failed int, errs []error) {
	for i := len(session.Operations) - 1; i >= 0; i-- {
		op := session.Operations[i]

		if !op.Success {
			continue
		}

		result := UndoOperation(op)
		if result.Success {
			successful++
		} else {
			failed++
			if result.Error != nil {
				errs = append(errs, result.Error)
			}
		}
	}

	return successful, failed, errs
}

// FindLatestSession returns the newest session in dir that has not been
// undone yet, together with its file path.
func FindLatestSession(dir string) (*LogSession, string, error) {
	files, err := sessionFiles(dir)
	if err != nil {
		return nil, "", err
	}

	for _, file := range files {
		session, err := ReadSession(file)
		if err != nil {
			// Skip corrupted files
			continue
		}
		if session.Metadata.UndoneAt == nil {
			return session, file, nil
		}
	}
	return nil, "", ErrNoSession
}

// MarkUndone stamps the session file so it is not undone twice.
func MarkUndone(path string, session *LogSession, at time.Time) error {
	session.Metadata.UndoneAt = &at
	return WriteSession(path, session)
}

type SessionSummary struct {
	Session      *LogSession
	FilePath     string
	RelativeTime string
}

// GetSessionSummaries lists the sessions in dir, newest first.
func GetSessionSummaries(dir string) ([]SessionSummary, error) {
	files, err := sessionFiles(dir)
	if err != nil {
		return nil, err
	}

	summaries := make([]SessionSummary, 0, len(files))
	for _, file := range files {
		session, err := ReadSession(file)
		if err != nil {
			continue
		}

		summaries = append(summaries, SessionSummary{
			Session:      session,
			FilePath:     file,
			RelativeTime: formatRelativeTime(session.Metadata.Timestamp),
		})
	}

	return summaries, nil
}

func formatRelativeTime(t time.Time) string {
	duration := time.Since(t)
	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		mins := int(duration.Minutes())
		return fmt.Sprintf("%d minute%s ago", mins, plural(mins))
	case duration < 24*time.Hour:
		hours := int(duration.Hours())
		return fmt.Sprintf("%d hour%s ago", hours, plural(hours))
	case duration < 7*24*time.Hour:
		days := int(duration.Hours() / 24)
		return fmt.Sprintf("%d day%s ago", days, plural(days))
	default:
		return t.Format("Jan 2, 2006")
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
