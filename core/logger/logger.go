package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"time"
)

// LogEntry is a single event, exactly one of the event fields is set.
type LogEntry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id,omitempty"`

	SessionStart *SessionStart `json:"session_start,omitempty"`
	SessionEnd   *SessionEnd   `json:"session_end,omitempty"`
	RunCommand   *RunCommand   `json:"run_command,omitempty"`
	Builtin      *Builtin      `json:"builtin,omitempty"`
}

// SessionStart is logged when an interpreter starts reading commands.
type SessionStart struct {
	User        string `json:"user"`
	Interactive bool   `json:"interactive"`
}

// SessionEnd is logged when an interpreter stops.
type SessionEnd struct {
	Reason string `json:"reason"`
}

// RunCommand is logged for every external command line, including the ones
// that failed to parse or start.
type RunCommand struct {
	Line           string     `json:"line"`
	Stages         [][]string `json:"stages,omitempty"`
	Status         int        `json:"status"`
	NotFound       []string   `json:"not_found,omitempty"`
	Error          string     `json:"error,omitempty"`
	DurationMicros int64      `json:"duration_micros"`
}

// Builtin is logged when a shell builtin runs.
type Builtin struct {
	Name   string `json:"name"`
	Status int    `json:"status"`
}

// LogRecorder is a callback that stores events in an external datastore.
type LogRecorder func(le *LogEntry) error

// Logger captures interaction event logs.
type Logger struct {
	Record LogRecorder
	// now is the time source, time.Now if nil.
	now func() time.Time
}

// NewJsonLinesLogRecorder creates a Logger that exports logs in newline
// delimited JSON object format.
func NewJsonLinesLogRecorder(w io.Writer) *Logger {
	return &Logger{
		Record: func(le *LogEntry) error {
			entry, err := json.Marshal(le)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

// NewNopLogger creates a Logger that drops every event.
func NewNopLogger() *Logger {
	return &Logger{
		Record: func(*LogEntry) error { return nil },
	}
}

func (l *Logger) timestamp() int64 {
	if l.now == nil {
		return time.Now().UnixMicro()
	}
	return l.now().UnixMicro()
}

func (l *Logger) record(sessionID string, le *LogEntry) error {
	le.TimestampMicros = l.timestamp()
	le.SessionID = sessionID

	return l.Record(le)
}

// NewSession creates a logger with attached session ID.
func (l *Logger) NewSession() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: fmt.Sprintf("%d", rand.Uint64())}
}

// Sessionless creates a logger without a session ID.
func (l *Logger) Sessionless() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: ""}
}

// SessionLogger logs messages with a shared session ID.
type SessionLogger struct {
	*Logger
	sessionID string
}

// SessionID gets the ID attached to every event.
func (l *SessionLogger) SessionID() string {
	return l.sessionID
}

// Record stores the event with the session ID and current time.
func (l *SessionLogger) Record(le *LogEntry) error {
	return l.record(l.sessionID, le)
}
