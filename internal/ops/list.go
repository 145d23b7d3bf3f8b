package ops

import (
	"context"

	"github.com/hpungsan/nudge/internal/errors"
	"github.com/hpungsan/nudge/internal/habit"
)

// ListInput contains parameters for the ListHabits operation.
type ListInput struct {
	PhoneNumber string
}

// ListHabits returns the active habits of the user registered under the
// phone number. An unknown phone yields an empty slice and registers nothing.
func ListHabits(ctx context.Context, store Store, input ListInput) ([]habit.Habit, error) {
	phone, err := requirePhone(input.PhoneNumber)
	if err != nil {
		return nil, err
	}

	user, err := store.FindUserByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return []habit.Habit{}, nil
		}
		return nil, err
	}

	habits, err := store.ListActiveHabits(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	// Ensure we return an empty array rather than nil
	if habits == nil {
		habits = []habit.Habit{}
	}
	return habits, nil
}
