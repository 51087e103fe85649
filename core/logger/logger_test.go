package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(micros int64) func() time.Time {
	return func() time.Time {
		return time.UnixMicro(micros)
	}
}

func TestNewJsonLinesLogRecorder(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJsonLinesLogRecorder(&buf)
	logger.now = fixedClock(42)

	sess := logger.Sessionless()
	require.NoError(t, sess.Record(&LogEntry{
		Builtin: &Builtin{Name: "history", Status: 0},
	}))
	require.NoError(t, sess.Record(&LogEntry{
		RunCommand: &RunCommand{Line: "ls | wc", Stages: [][]string{{"ls"}, {"wc"}}, Status: 1},
	}))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"timestamp_micros":42,"builtin":{"name":"history","status":0}}`, lines[0])
	assert.JSONEq(t, `{
		"timestamp_micros":42,
		"run_command":{"line":"ls | wc","stages":[["ls"],["wc"]],"status":1,"duration_micros":0}
	}`, lines[1])
}

func TestNewSession(t *testing.T) {
	var entries []*LogEntry
	logger := &Logger{
		Record: func(le *LogEntry) error {
			entries = append(entries, le)
			return nil
		},
		now: fixedClock(7),
	}

	first := logger.NewSession()
	second := logger.NewSession()
	require.NotEmpty(t, first.SessionID())
	assert.NotEqual(t, first.SessionID(), second.SessionID())

	require.NoError(t, first.Record(&LogEntry{SessionStart: &SessionStart{User: "tester"}}))
	require.Len(t, entries, 1)
	assert.Equal(t, first.SessionID(), entries[0].SessionID)
	assert.Equal(t, int64(7), entries[0].TimestampMicros)
}

func TestNewNopLogger(t *testing.T) {
	sess := NewNopLogger().NewSession()
	assert.NoError(t, sess.Record(&LogEntry{SessionEnd: &SessionEnd{Reason: "eof"}}))
}

func TestReadJSONLinesLog(t *testing.T) {
	var buf bytes.Buffer
	sess := NewJsonLinesLogRecorder(&buf).NewSession()
	events := []*LogEntry{
		{SessionStart: &SessionStart{User: "tester", Interactive: true}},
		{RunCommand: &RunCommand{Line: "cat < in", Stages: [][]string{{"cat"}}}},
		{SessionEnd: &SessionEnd{Reason: "exit"}},
	}
	for _, ev := range events {
		require.NoError(t, sess.Record(ev))
	}

	var read []*LogEntry
	require.NoError(t, ReadJSONLinesLog(&buf, func(le *LogEntry) {
		read = append(read, le)
	}))

	assert.Equal(t, events, read)
}

func TestReadJSONLinesLogBadInput(t *testing.T) {
	err := ReadJSONLinesLog(strings.NewReader(`{"timestamp_micros": "soon"}`), func(*LogEntry) {})
	assert.Error(t, err)
}

func TestReport(t *testing.T) {
	report := NewReport()
	for _, le := range []*LogEntry{
		{SessionStart: &SessionStart{User: "tester"}},
		{RunCommand: &RunCommand{Stages: [][]string{{"ls"}, {"wc", "-l"}}}},
		{RunCommand: &RunCommand{Stages: [][]string{{"nope"}}, Status: 1, NotFound: []string{"nope"}}},
		{RunCommand: &RunCommand{Line: "ls >", Status: 1, Error: "malformed command"}},
		{Builtin: &Builtin{Name: "history"}},
		{SessionEnd: &SessionEnd{Reason: "exit"}},
		{},
	} {
		report.Update(le)
	}

	assert.Equal(t, 7, report.LogEntries)
	assert.Equal(t, 1, report.Sessions.Count)
	assert.Equal(t, 1, report.Sessions.Users.Get("tester"))
	assert.Equal(t, 1, report.Sessions.EndReasons.Get("exit"))
	assert.Equal(t, 3, report.RunCommand.Count)
	assert.Equal(t, 1, report.RunCommand.CommandNames.Get("ls"))
	assert.Equal(t, 1, report.RunCommand.PipelineLengths.Get("2"))
	assert.Equal(t, 1, report.RunCommand.NotFound.Get("nope"))
	assert.Equal(t, 1, report.RunCommand.Failures.Get("nope", "1", ""))
	assert.Equal(t, 1, report.RunCommand.Failures.Get("", "1", "malformed command"))
	assert.Equal(t, 1, report.Builtin.CommandNames.Get("history"))
	assert.Equal(t, 1, report.InvalidEntries.Get("empty"))

	_, err := json.Marshal(report)
	assert.NoError(t, err)
}

func TestPathCounterMarshalJSON(t *testing.T) {
	ctr := NewPathCounter("command", "status")
	ctr.Increment("ls", "0")
	ctr.Increment("cat", "1")
	ctr.Increment("cat", "1")

	out, err := json.Marshal(ctr)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"count":2,"event":{"command":"cat","status":"1"}},
		{"count":1,"event":{"command":"ls","status":"0"}}
	]`, string(out))

	assert.Panics(t, func() { ctr.Increment("too", "many", "columns") })
}
