package diag

import (
	"fmt"
	"io"
	"strings"
)

// DefaultMaxEntries is the capacity of a Log created with zero capacity.
const DefaultMaxEntries = 4096

// SpamMax bounds the spam ring.
const SpamMax = 100

// Entry is a single line in the log.
type Entry struct {
	Channel  string
	Severity Severity
	Detail   string
	Repeated int
}

func (e Entry) String() string {
	s := fmt.Sprintf("%s [%s]: %s", e.Channel, e.Severity, e.Detail)
	if e.Repeated > 0 {
		s += fmt.Sprintf(" (repeat x%d)", e.Repeated+1)
	}
	return s
}

// Log keeps recent diagnostics in memory, grouped by channel. Consecutive
// identical messages are collapsed into one entry with a repeat count, and
// the oldest entries are dropped once the log is full.
//
// High-frequency traces that would drown real messages go to the separate
// spam ring via Spam.
//
// A Log is not safe for concurrent use.
type Log struct {
	maxEntries int
	entries    []Entry
	channels   []string
	spam       []string
}

// NewLog creates a Log holding at most maxEntries entries.
func NewLog(maxEntries int) *Log {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Log{maxEntries: maxEntries}
}

// Push appends a message.
func (l *Log) Push(msg string, sev Severity, channel string) {
	if channel == "" {
		channel = ChannelAll
	}
	l.noteChannel(channel)

	if n := len(l.entries); n > 0 {
		last := &l.entries[n-1]
		if last.Channel == channel && last.Severity == sev && last.Detail == msg {
			last.Repeated++
			return
		}
	}

	l.entries = append(l.entries, Entry{Channel: channel, Severity: sev, Detail: msg})
	if len(l.entries) > l.maxEntries {
		l.entries = l.entries[len(l.entries)-l.maxEntries:]
	}
}

func (l *Log) noteChannel(channel string) {
	for _, c := range l.channels {
		if c == channel {
			return
		}
	}
	l.channels = append(l.channels, channel)
}

var _ Spammer = (*Log)(nil)

// Spam records a trace line in the bounded spam ring.
func (l *Log) Spam(msg string) {
	l.spam = append(l.spam, msg)
	if len(l.spam) > SpamMax {
		l.spam = l.spam[len(l.spam)-SpamMax:]
	}
}

// Channels returns channel names in first-seen order.
func (l *Log) Channels() []string {
	return append([]string(nil), l.channels...)
}

// Filter selects entries.
type Filter struct {
	Channel  string            // empty or ChannelAll matches every channel
	Hide     map[Severity]bool // severities to skip
	Contains string            // substring the detail must contain
}

func (f Filter) match(e Entry) bool {
	if f.Channel != "" && f.Channel != ChannelAll && f.Channel != e.Channel {
		return false
	}
	if f.Hide[e.Severity] {
		return false
	}
	return f.Contains == "" || strings.Contains(e.Detail, f.Contains)
}

// Entries returns the entries matching f, oldest first.
func (l *Log) Entries(f Filter) []Entry {
	var out []Entry
	for _, e := range l.entries {
		if f.match(e) {
			out = append(out, e)
		}
	}
	return out
}

// Tail returns up to n of the most recent entries.
func (l *Log) Tail(n int) []Entry {
	if n > len(l.entries) {
		n = len(l.entries)
	}
	return append([]Entry(nil), l.entries[len(l.entries)-n:]...)
}

// SpamLines returns the spam ring, oldest first.
func (l *Log) SpamLines() []string {
	return append([]string(nil), l.spam...)
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Clear empties the log, its channel list and the spam ring.
func (l *Log) Clear() {
	l.entries = nil
	l.channels = nil
	l.spam = nil
}

// Write prints the entries matching f to w, one per line.
func (l *Log) Write(w io.Writer, f Filter) error {
	for _, e := range l.Entries(f) {
		if _, err := fmt.Fprintln(w, e.String()); err != nil {
			return err
		}
	}
	return nil
}
