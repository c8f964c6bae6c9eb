// Package gputest provides an in-memory gpu backend that records every call made through it.
package gputest

import (
	"fmt"
	"sync"
)

// Call is one recorded backend call.
// Target names the receiving object (for example "Buffer#3") and Args holds the call arguments,
// with gpu objects replaced by their names.
type Call struct {
	Name   string
	Target string
	Args   []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s(%s)%v", c.Name, c.Target, c.Args)
}

// Log is the ordered call history shared by every object of one fake Instance.
type Log struct {
	mu    sync.Mutex
	calls []Call
}

func (l *Log) record(name, target string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, Call{Name: name, Target: target, Args: args})
}

// Calls returns a copy of the recorded calls.
func (l *Log) Calls() []Call {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Call, len(l.calls))
	copy(out, l.calls)
	return out
}

// Names returns the recorded call names in order.
func (l *Log) Names() []string {
	calls := l.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Name
	}
	return out
}

// Filter returns the recorded calls with the given name.
func (l *Log) Filter(name string) []Call {
	var out []Call
	for _, c := range l.Calls() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many calls with the given name were recorded.
func (l *Log) Count(name string) int {
	return len(l.Filter(name))
}

// Reset clears the history.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = nil
}
