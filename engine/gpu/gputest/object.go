package gputest

import (
	"fmt"
	"reflect"
	"sync"
)

// Object is the common state of every fake resource.
type Object struct {
	Kind  string
	ID    int
	Label string

	log       *Log
	mu        sync.Mutex
	released  int
	destroyed int
}

// Name returns the unique name used in recorded calls.
func (o *Object) Name() string {
	return fmt.Sprintf("%s#%d", o.Kind, o.ID)
}

func (o *Object) Release() {
	o.mu.Lock()
	o.released++
	o.mu.Unlock()
	o.log.record(o.Kind+".Release", o.Name())
}

func (o *Object) Destroy() {
	o.mu.Lock()
	o.destroyed++
	o.mu.Unlock()
	o.log.record(o.Kind+".Destroy", o.Name())
}

// Released returns how many times Release was called.
func (o *Object) Released() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.released
}

// Destroyed returns how many times Destroy was called.
func (o *Object) Destroyed() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.destroyed
}

type named interface {
	Name() string
}

func nameOf(v any) string {
	if v == nil {
		return "<nil>"
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return "<nil>"
	}
	if n, ok := v.(named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", v)
}
