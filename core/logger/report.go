package logger

import (
	"encoding/json"
	"io"
	"sort"
	"strconv"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	Sessions   SessionReport    `json:"session_report"`
	RunCommand RunCommandReport `json:"run_command_report"`
	Builtin    BuiltinReport    `json:"builtin_report"`
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{
		RunCommand: RunCommandReport{
			Failures: NewPathCounter("command", "status", "error"),
		},
	}
}

// Update adds the event to the report.
func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch {
	case le.SessionStart != nil:
		r.Sessions.updateStart(le.SessionStart)
	case le.SessionEnd != nil:
		r.Sessions.updateEnd(le.SessionEnd)
	case le.RunCommand != nil:
		r.RunCommand.update(le.RunCommand)
	case le.Builtin != nil:
		r.Builtin.update(le.Builtin)
	default:
		r.InvalidEntries.Increment("empty")
	}
}

type SessionReport struct {
	Count int `json:"count"`
	// Users that started sessions and their counts.
	Users StrCounter `json:"users"`
	// Reasons sessions ended and their counts.
	EndReasons StrCounter `json:"end_reasons"`
}

func (r *SessionReport) updateStart(ss *SessionStart) {
	r.Count++
	r.Users.Increment(ss.User)
}

func (r *SessionReport) updateEnd(se *SessionEnd) {
	r.EndReasons.Increment(se.Reason)
}

type RunCommandReport struct {
	Count int `json:"count"`
	// Name of the commands in every stage.
	CommandNames StrCounter `json:"command_names"`
	// Lengths of the pipelines.
	PipelineLengths StrCounter `json:"pipeline_lengths"`
	// Programs that couldn't be executed.
	NotFound StrCounter `json:"not_found"`
	// Lines that didn't finish with a success status.
	Failures *PathCounter `json:"failures"`
}

func (r *RunCommandReport) update(rc *RunCommand) {
	r.Count++
	for _, stage := range rc.Stages {
		if len(stage) > 0 {
			r.CommandNames.Increment(stage[0])
		}
	}
	if len(rc.Stages) > 0 {
		r.PipelineLengths.Increment(strconv.Itoa(len(rc.Stages)))
	}
	for _, name := range rc.NotFound {
		r.NotFound.Increment(name)
	}

	if rc.Status != 0 || rc.Error != "" {
		if r.Failures == nil {
			r.Failures = NewPathCounter("command", "status", "error")
		}
		name := ""
		if len(rc.Stages) > 0 && len(rc.Stages[0]) > 0 {
			name = rc.Stages[0][0]
		}
		r.Failures.Increment(name, strconv.Itoa(rc.Status), rc.Error)
	}
}

type BuiltinReport struct {
	CommandNames StrCounter `json:"command_names"`
}

func (r *BuiltinReport) update(b *Builtin) {
	r.CommandNames.Increment(b.Name)
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the number of times the key was seen.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implements a custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts the number of tuples seen.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given tuple.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// Get returns the number of times the tuple was seen.
func (ctr *PathCounter) Get(vals ...string) int {
	return ctr.internal[toKey(vals...)]
}

type pathCount struct {
	Count  int               `json:"count"`
	Fields map[string]string `json:"event"`
	Path   string            `json:"-"`
}

// MarshalJSON implements a custom JSON marshaler, the most frequent tuples
// come first.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	out := []pathCount{}
	for k, v := range ctr.internal {
		count := pathCount{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
