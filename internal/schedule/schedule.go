// Package schedule turns delayed work into Bubble Tea messages.
//
// Components never call time.AfterFunc or tea.Tick directly. They ask a
// Scheduler for a command that delivers a message after a delay. In a
// running program Tick is used; tests use Manual and advance time by hand,
// feeding the released messages back into Update.
package schedule

import (
	"sort"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Scheduler produces commands that deliver msg once d has elapsed.
type Scheduler interface {
	After(d time.Duration, msg tea.Msg) tea.Cmd
}

// Tick is the production Scheduler backed by tea.Tick.
type Tick struct{}

// After returns a tea.Tick command yielding msg.
func (Tick) After(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

// Manual is a deterministic Scheduler. Time stands still until Advance is
// called; After only records the task and returns a nil command.
//
// Manual is safe for concurrent use.
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	seq     uint64
	pending []*task
}

type task struct {
	deadline time.Duration
	seq      uint64
	msg      tea.Msg
}

// NewManual returns a Manual scheduler at time zero.
func NewManual() *Manual {
	return &Manual{}
}

// After records msg for delivery d after the current manual time.
func (m *Manual) After(d time.Duration, msg tea.Msg) tea.Cmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d < 0 {
		d = 0
	}
	m.seq++
	m.pending = append(m.pending, &task{
		deadline: m.now + d,
		seq:      m.seq,
		msg:      msg,
	})
	return nil
}

// Advance moves time forward by d and returns the messages whose deadline
// was reached, in deadline order. Tasks sharing a deadline keep the order
// in which they were scheduled.
func (m *Manual) Advance(d time.Duration) []tea.Msg {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.now += d

	var due, rest []*task
	for _, t := range m.pending {
		if t.deadline <= m.now {
			due = append(due, t)
		} else {
			rest = append(rest, t)
		}
	}
	m.pending = rest

	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline != due[j].deadline {
			return due[i].deadline < due[j].deadline
		}
		return due[i].seq < due[j].seq
	})

	msgs := make([]tea.Msg, 0, len(due))
	for _, t := range due {
		msgs = append(msgs, t.msg)
	}
	return msgs
}

// Pending reports how many tasks have not fired yet.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Elapsed returns the total manual time advanced so far.
func (m *Manual) Elapsed() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}
