package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/krakowski/BombermanVR/pkg/api"
)

// TypedHandlerFunc works on an already decoded payload.
type TypedHandlerFunc[T any] func(ctx Context, payload T) (Result, error)

// EmptyHandlerFunc is a handler that needs no payload (INIT).
type EmptyHandlerFunc func(ctx Context) (Result, error)

// WithPayload turns a typed handler into a HandlerFunc that decodes and
// validates the payload first.
func WithPayload[T any](handler TypedHandlerFunc[T]) HandlerFunc {
	return func(ctx Context, raw json.RawMessage) (Result, error) {
		var payload T

		if len(raw) == 0 {
			return Result{}, fmt.Errorf("missing payload")
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return Result{}, fmt.Errorf("invalid payload format: %w", err)
		}

		if v, ok := any(payload).(api.Validator); ok {
			if err := v.Validate(); err != nil {
				return Result{}, fmt.Errorf("validation failed: %w", err)
			}
		}

		return handler(ctx, payload)
	}
}

// WithEmptyPayload wraps a handler that ignores its payload.
func WithEmptyPayload(handler EmptyHandlerFunc) HandlerFunc {
	return func(ctx Context, _ json.RawMessage) (Result, error) {
		return handler(ctx)
	}
}

// RequireLiving rejects commands from spectators before they reach handler.
func RequireLiving(handler HandlerFunc) HandlerFunc {
	return func(ctx Context, raw json.RawMessage) (Result, error) {
		if !ctx.Actor.IsAlive() {
			return Result{}, ErrSpectator
		}
		return handler(ctx, raw)
	}
}
