// Package session tracks identity and timing for one compilation run
// (§10.4). A Session is created once per pipeline.Compile call; its stage
// timings feed the human-readable CLI summary, and its total elapsed time
// feeds the JSON diagnostic output's "timing" block. The UUID is held on
// ID and is not written to either output.
package session

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/mbcrawfo/vibefun-sub013/internal/diagnostics"
)

// stageTiming records how long one pipeline phase took.
type stageTiming struct {
	name     string
	duration time.Duration
}

// Session identifies a single compilation run end to end.
type Session struct {
	ID      uuid.UUID
	started time.Time
	stages  []stageTiming
}

// New starts a session clock running and allocates its identity.
func New() *Session {
	return &Session{ID: uuid.New(), started: time.Now()}
}

// Stage records a completed phase. since is the time the phase began;
// Stage measures from there to now and appends to the session's timeline.
func (s *Session) Stage(name string, since time.Time) {
	s.stages = append(s.stages, stageTiming{name: name, duration: time.Since(since)})
}

// Elapsed returns the wall-clock time since the session started.
func (s *Session) Elapsed() time.Duration {
	return time.Since(s.started)
}

// Summary renders a one-line human summary of stage timings, e.g.
// "load 4ms, resolve 1ms, desugar 2ms, check 9ms (started 3 seconds ago)".
func (s *Session) Summary() string {
	if len(s.stages) == 0 {
		return "started " + humanize.Time(s.started)
	}
	out := s.stages[0].name + " " + s.stages[0].duration.String()
	for _, st := range s.stages[1:] {
		out += ", " + st.name + " " + st.duration.String()
	}
	return out + " (started " + humanize.Time(s.started) + ")"
}

// Timing builds the §6.6 JSON "timing" block for this session.
func (s *Session) Timing() *diagnostics.Timing {
	elapsed := s.Elapsed()
	return &diagnostics.Timing{
		ElapsedHuman: elapsed.String(),
		ElapsedNanos: elapsed.Nanoseconds(),
	}
}
