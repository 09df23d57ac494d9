package forms

import (
	"context"
	"log/slog"

	"github.com/Veraticus/fintrack/internal/api"
	"github.com/Veraticus/fintrack/internal/refresh"
)

// Saver creates and updates records of T. api.Resource satisfies it.
type Saver[T any] interface {
	Create(ctx context.Context, payload any) (T, error)
	Update(ctx context.Context, id int, payload any) (T, error)
}

// Hooks run after a successful save.
type Hooks[T any] struct {
	// Bus, when set, receives a Created or Updated event.
	Bus *refresh.Bus
	// OnSave, when set, receives the stored record.
	OnSave func(T)
}

type target struct {
	resource refresh.Resource
	noun     string
	id       int
}

// submit creates when id is zero and updates otherwise.
func submit[T any](ctx context.Context, saver Saver[T], t target, payload any, hooks Hooks[T]) (T, error) {
	var (
		saved  T
		err    error
		action = refresh.Created
	)
	if t.id == 0 {
		saved, err = saver.Create(ctx, payload)
	} else {
		action = refresh.Updated
		saved, err = saver.Update(ctx, t.id, payload)
	}
	if err != nil {
		slog.Debug("Save failed", "resource", t.resource, "id", t.id, "error", err)
		return saved, &SubmitError{Err: err, Message: api.UserMessage(err, "Could not save "+t.noun)}
	}

	if hooks.Bus != nil {
		hooks.Bus.Publish(refresh.Event{Resource: t.resource, Action: action, ID: t.id})
	}
	if hooks.OnSave != nil {
		hooks.OnSave(saved)
	}
	return saved, nil
}
