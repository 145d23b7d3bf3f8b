package ops

import (
	"context"
	"fmt"
	"strings"

	"github.com/hpungsan/nudge/internal/habit"
	"github.com/hpungsan/nudge/internal/intent"
)

// Dispatch executes in for user. The error return is reserved for store
// failures; every expected outcome, including incomplete intents and
// unsupported actions, is reported through Result.
func Dispatch(ctx context.Context, store Store, in intent.Intent, user *habit.User) (*Result, error) {
	switch in.Action {
	case intent.ActionCreate:
		return dispatchCreate(ctx, store, in, user)
	case intent.ActionList:
		return dispatchList(ctx, store, user)
	case intent.ActionDelete:
		return dispatchDelete(ctx, store, in, user)
	case intent.ActionUpdate:
		return failure("Updating habits is not supported yet. Delete the habit and create it again with the new schedule."), nil
	default:
		return failure(fmt.Sprintf("Unsupported action %q", in.Action)), nil
	}
}

func dispatchCreate(ctx context.Context, store Store, in intent.Intent, user *habit.User) (*Result, error) {
	name := strings.TrimSpace(in.HabitName)
	frequencyType := strings.TrimSpace(in.FrequencyType)

	switch {
	case name == "":
		return failure("Cannot create habit: habit name is missing"), nil
	case frequencyType == "":
		return failure(fmt.Sprintf("Cannot create habit %q: frequency type is missing", name)), nil
	}

	times := habit.FormatTimes(in.FrequencyTimes)
	h, err := store.CreateHabit(ctx, user.ID, name, frequencyType, times)
	if err != nil {
		return nil, err
	}

	return &Result{
		Success: true,
		Message: fmt.Sprintf("Created habit %q (%s)", h.HabitName, habit.DescribeFrequency(h.FrequencyType, h.FrequencyTimes)),
		Data:    h,
	}, nil
}

func dispatchList(ctx context.Context, store Store, user *habit.User) (*Result, error) {
	habits, err := store.ListActiveHabits(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if habits == nil {
		habits = []habit.Habit{}
	}

	return &Result{
		Success: true,
		Message: fmt.Sprintf("Found %d active habit(s)", len(habits)),
		Data:    habits,
	}, nil
}
