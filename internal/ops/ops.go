// Package ops executes habit intents against the store.
package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/nudge/internal/errors"
	"github.com/hpungsan/nudge/internal/habit"
	"github.com/hpungsan/nudge/internal/intent"
)

// Store is the record keeper the operations run against.
// db.Store is the production implementation.
type Store interface {
	FindUserByPhone(ctx context.Context, phone string) (*habit.User, error)
	CreateUser(ctx context.Context, phone string) (*habit.User, error)
	CreateHabit(ctx context.Context, userID, name, frequencyType, frequencyTimes string) (*habit.Habit, error)
	ListActiveHabits(ctx context.Context, userID string) ([]habit.Habit, error)
	FindActiveHabitsByNameContains(ctx context.Context, userID, substring string) ([]habit.Habit, error)
	MarkHabitsDeleted(ctx context.Context, userID, substring string) (int, error)
}

// Interpreter turns request text into an Intent. It never fails.
type Interpreter interface {
	Interpret(ctx context.Context, text string) intent.Intent
}

// Result is the outcome of dispatching one intent.
// Success false covers incomplete intents and misses; store failures are
// returned as errors instead.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func failure(msg string) *Result {
	return &Result{Success: false, Message: msg}
}

// findOrCreateUser resolves phone to a user, registering it on first contact.
// A concurrent registration of the same phone is resolved by re-reading.
func findOrCreateUser(ctx context.Context, store Store, phone string) (*habit.User, error) {
	u, err := store.FindUserByPhone(ctx, phone)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, errors.ErrNotFound) {
		return nil, err
	}

	u, err = store.CreateUser(ctx, phone)
	if err == nil {
		return u, nil
	}
	if errors.Is(err, errors.ErrUniqueConstraint) {
		return store.FindUserByPhone(ctx, phone)
	}
	return nil, err
}

// requirePhone normalizes phone and rejects blanks.
func requirePhone(phone string) (string, error) {
	phone = habit.NormalizePhone(phone)
	if phone == "" {
		return "", errors.NewInvalidRequest("Missing or invalid phoneNumber")
	}
	return phone, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
