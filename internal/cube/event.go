package cube

import (
	"fmt"
	"log/slog"
	"time"

	"cubeproc/internal/logger"
)

type Kind int

const (
	KindLog Kind = iota
	KindProgress
)

// Event is one entry of a run's log. Progress events also carry the fraction
// of the run completed, in [0,1]. Attrs are slog key/value pairs naming the
// file or sheet the event is about.
type Event struct {
	Time     time.Time
	Kind     Kind
	Level    slog.Level
	Message  string
	Progress float64
	Attrs    []any
}

func (e Event) String() string {
	return fmt.Sprintf("%-5s %s", e.Level.String(), e.Message)
}

// Journal records the events of one run in order. Every event is mirrored to
// the package logger and, when a sink is set, sent to it; the send blocks, so
// whoever owns the sink must keep draining it until the run returns.
type Journal struct {
	run   *runLog
	attrs []any
}

type runLog struct {
	id     string
	events []Event
	sink   chan<- Event
}

func NewJournal(runID string, sink chan<- Event) *Journal {
	return &Journal{run: &runLog{id: runID, sink: sink}}
}

// With returns a journal that records into the same run and adds attrs to
// every event it records.
func (j *Journal) With(attrs ...any) *Journal {
	scoped := &Journal{attrs: append(append([]any(nil), j.scope()...), attrs...)}
	if j != nil {
		scoped.run = j.run
	}
	return scoped
}

func (j *Journal) scope() []any {
	if j == nil {
		return nil
	}
	return j.attrs
}

// Events returns a copy of everything recorded so far.
func (j *Journal) Events() []Event {
	if j == nil || j.run == nil {
		return nil
	}
	out := make([]Event, len(j.run.events))
	copy(out, j.run.events)
	return out
}

// Count returns how many log events at exactly level were recorded.
func (j *Journal) Count(level slog.Level) int {
	n := 0
	for _, e := range j.Events() {
		if e.Kind == KindLog && e.Level == level {
			n++
		}
	}
	return n
}

func (j *Journal) Infof(format string, args ...any) {
	j.record(Event{Kind: KindLog, Level: slog.LevelInfo, Message: fmt.Sprintf(format, args...)})
}

func (j *Journal) Warnf(format string, args ...any) {
	j.record(Event{Kind: KindLog, Level: slog.LevelWarn, Message: fmt.Sprintf(format, args...)})
}

func (j *Journal) Errorf(format string, args ...any) {
	j.record(Event{Kind: KindLog, Level: slog.LevelError, Message: fmt.Sprintf(format, args...)})
}

// Progress records a phase boundary.
func (j *Journal) Progress(fraction float64, format string, args ...any) {
	switch {
	case fraction < 0:
		fraction = 0
	case fraction > 1:
		fraction = 1
	}
	j.record(Event{Kind: KindProgress, Level: slog.LevelInfo, Message: fmt.Sprintf(format, args...), Progress: fraction})
}

func (j *Journal) record(e Event) {
	e.Time = time.Now()
	e.Attrs = j.scope()
	if j == nil || j.run == nil {
		logger.Log(e.Level, e.Message, e.Attrs...)
		return
	}

	logger.Log(e.Level, e.Message, append([]any{"run_id", j.run.id}, e.Attrs...)...)
	j.run.events = append(j.run.events, e)
	if j.run.sink != nil {
		j.run.sink <- e
	}
}
