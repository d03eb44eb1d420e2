package view

import (
	"context"
	"log"
)

// State is the lifecycle of data a view depends on.
type State int

const (
	Pending State = iota
	Failed
	Ready
)

// Result is the outcome of one fetch for a view. The zero value is a fetch
// that has not been made.
type Result[T any] struct {
	State   State
	Value   T
	Message string
	Err     error
}

func (r Result[T]) IsPending() bool { return r.State == Pending }
func (r Result[T]) IsFailed() bool  { return r.State == Failed }
func (r Result[T]) IsReady() bool   { return r.State == Ready }

// Load runs fetch once. On failure the error is logged and message becomes
// the text the view shows in place of the data.
func Load[T any](ctx context.Context, fetch func(context.Context) (T, error), message string) Result[T] {
	v, err := fetch(ctx)
	return Settle(v, err, message)
}

// Settle is Load for a fetch that has already run.
func Settle[T any](v T, err error, message string) Result[T] {
	if err != nil {
		log.Printf("ERROR: %s: %v", message, err)
		return Result[T]{State: Failed, Message: message, Err: err}
	}
	return Result[T]{State: Ready, Value: v}
}
