package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// ProgramHandler is a slog.Handler that routes records into a running
// Bubble Tea program, where they show up in the status bar. Records
// arriving before SetProgram are dropped.
//
// Records are queued and handed to the program from a separate goroutine,
// so logging from inside Update never waits on the event loop. When the
// queue is full, records are dropped.
//
// Handlers derived via WithAttrs/WithGroup share the queue, so one
// SetProgram call reaches all of them.
type ProgramHandler struct {
	level  slog.Leveler
	sink   *programSink
	attrs  []slog.Attr
	prefix string
}

const sinkCapacity = 64

type programSink struct {
	mu    sync.Mutex
	queue chan logRecordMsg
	done  chan struct{}
}

// NewProgramHandler creates a handler for records at or above level.
func NewProgramHandler(level slog.Leveler) *ProgramHandler {
	return &ProgramHandler{
		level: level,
		sink:  &programSink{},
	}
}

// SetProgram starts delivery to p. A nil p stops delivery. Safe to call
// from any goroutine.
func (h *ProgramHandler) SetProgram(p *tea.Program) {
	if p == nil {
		h.setSend(nil)
		return
	}
	h.setSend(p.Send)
}

func (h *ProgramHandler) setSend(fn func(tea.Msg)) {
	s := h.sink
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done != nil {
		close(s.done)
		s.queue, s.done = nil, nil
	}
	if fn == nil {
		return
	}
	s.queue = make(chan logRecordMsg, sinkCapacity)
	s.done = make(chan struct{})
	go drain(s.queue, s.done, fn)
}

func drain(queue <-chan logRecordMsg, done <-chan struct{}, send func(tea.Msg)) {
	for {
		select {
		case <-done:
			return
		case msg := <-queue:
			send(msg)
		}
	}
}

// offer queues msg without blocking. It reports false when nothing is
// attached or the queue is full.
func (s *programSink) offer(msg logRecordMsg) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.queue == nil {
		return false
	}
	select {
	case s.queue <- msg:
		return true
	default:
		return false
	}
}

func (h *ProgramHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats the record as "message (key=value, ...)" and queues it.
func (h *ProgramHandler) Handle(_ context.Context, record slog.Record) error {
	var parts []string
	for _, attr := range h.attrs {
		parts = append(parts, attr.Key+"="+attr.Value.String())
	}
	record.Attrs(func(attr slog.Attr) bool {
		parts = append(parts, h.prefix+attr.Key+"="+attr.Value.String())
		return true
	})

	summary := record.Message
	if len(parts) > 0 {
		summary = fmt.Sprintf("%s (%s)", summary, strings.Join(parts, ", "))
	}

	h.sink.offer(logRecordMsg{summary: summary, level: record.Level})
	return nil
}

func (h *ProgramHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := h.clone()
	for _, attr := range attrs {
		attr.Key = h.prefix + attr.Key
		derived.attrs = append(derived.attrs, attr)
	}
	return derived
}

func (h *ProgramHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	derived := h.clone()
	derived.prefix = h.prefix + name + "."
	return derived
}

func (h *ProgramHandler) clone() *ProgramHandler {
	return &ProgramHandler{
		level:  h.level,
		sink:   h.sink,
		attrs:  append([]slog.Attr(nil), h.attrs...),
		prefix: h.prefix,
	}
}
