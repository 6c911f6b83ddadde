// Package log keeps a journal of performed renames so a run can be undone.
package log

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type OperationType string

const (
	OpRename OperationType = "rename"
)

// sessionFileLayout names session files so that lexical order is time order.
const sessionFileLayout = "2006-01-02_150405.000"

type OperationLog struct {
	ID         string        `json:"id"`
	Timestamp  time.Time     `json:"timestamp"`
	Type       OperationType `json:"type"`
	SourcePath string        `json:"source_path"`
	DestPath   string        `json:"dest_path,omitempty"`
	Success    bool          `json:"success"`
	Error      string        `json:"error,omitempty"`
}

type SessionMetadata struct {
	CommandArgs   []string   `json:"command_args"`
	WorkingDir    string     `json:"working_dir"`
	Timestamp     time.Time  `json:"timestamp"`
	SessionID     string     `json:"session_id"`
	TotalOps      int        `json:"total_operations"`
	SuccessfulOps int        `json:"successful_operations"`
	FailedOps     int        `json:"failed_operations"`
	UndoneAt      *time.Time `json:"undone_at,omitempty"`
}

type LogSession struct {
	Metadata   SessionMetadata `json:"metadata"`
	Operations []OperationLog  `json:"operations"`
}

// Journal records the operations of one run. A disabled journal accepts
// calls and writes nothing.
type Journal struct {
	mu      sync.Mutex
	dir     string
	enabled bool
	session *LogSession
	now     func() time.Time
}

// DefaultDir returns ~/.otr-tidy/logs.
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".otr-tidy", "logs"), nil
}

// NewJournal creates a journal writing session files into dir.
func NewJournal(dir string, enabled bool) *Journal {
	return &Journal{dir: dir, enabled: enabled && dir != "", now: time.Now}
}

// Dir returns the directory session files are written to.
func (j *Journal) Dir() string { return j.dir }

// Start begins a new session.
func (j *Journal) Start(command string, args []string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.enabled {
		return nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	j.session = &LogSession{
		Metadata: SessionMetadata{
			CommandArgs: append([]string{command}, args...),
			WorkingDir:  wd,
			Timestamp:   j.now(),
			SessionID:   uuid.NewString(),
		},
		Operations: []OperationLog{},
	}
	return nil
}

// LogRename records a rename attempt.
func (j *Journal) LogRename(sourcePath, destPath string, success bool, err error) {
	j.LogOperation(OpRename, sourcePath, destPath, success, err)
}

// LogOperation records an operation in the current session.
func (j *Journal) LogOperation(opType OperationType, sourcePath, destPath string, success bool, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.enabled || j.session == nil {
		return
	}

	op := OperationLog{
		ID:         fmt.Sprintf("%s_%d", j.session.Metadata.SessionID, len(j.session.Operations)),
		Timestamp:  j.now(),
		Type:       opType,
		SourcePath: sourcePath,
		DestPath:   destPath,
		Success:    success,
	}
	if err != nil {
		op.Error = err.Error()
	}

	j.session.Operations = append(j.session.Operations, op)
}

// End closes the session and writes it when at least one operation
// succeeded. It returns the path of the written file, if any.
func (j *Journal) End() (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	session := j.session
	j.session = nil
	if !j.enabled || session == nil {
		return "", nil
	}

	updateStats(session)
	if session.Metadata.SuccessfulOps == 0 {
		return "", nil
	}

	if err := os.MkdirAll(j.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}
	path := filepath.Join(j.dir, session.Metadata.Timestamp.Format(sessionFileLayout)+".json")
	if err := WriteSession(path, session); err != nil {
		return "", err
	}
	return path, nil
}

// updateStats updates the session statistics
func updateStats(session *LogSession) {
	successful := 0
	failed := 0

	for _, op := range session.Operations {
		if op.Success {
			successful++
		} else {
			failed++
		}
	}

	session.Metadata.TotalOps = len(session.Operations)
	session.Metadata.SuccessfulOps = successful
	session.Metadata.FailedOps = failed
}

func WriteSession(path string, session *LogSession) error {
	if session == nil {
		return nil
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write log file: %w", err)
	}

	return nil
}

func ReadSession(logPath string) (*LogSession, error) {
	data, err := os.ReadFile(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	var session LogSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// sessionFiles lists session files in dir, newest first.
func sessionFiles(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list log files: %w", err)
	}

	// File names start with the timestamp
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	return files, nil
}

// Cleanup removes session files older than retentionDays.
func Cleanup(dir string, retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	files, err := sessionFiles(dir)
	if err != nil {
		return err
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	var firstErr error
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(file); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("failed to remove old log file %s: %w", file, err)
			}
		}
	}
	return firstErr
}
