package ops

import (
	"context"
	"fmt"
	"strings"

	"github.com/hpungsan/nudge/internal/habit"
	"github.com/hpungsan/nudge/internal/intent"
)

// dispatchDelete soft-deletes every active habit of user whose name contains
// the query. Matching is a case-sensitive substring test. The find and the
// update are separate statements, so two concurrent deletes may both report
// the same habits.
func dispatchDelete(ctx context.Context, store Store, in intent.Intent, user *habit.User) (*Result, error) {
	query := strings.TrimSpace(in.HabitName)

	switch {
	case query == "":
		return failure("Cannot delete habit: habit name is missing"), nil
	case query == intent.UnknownHabitName:
		return failure("Cannot delete habit: could not tell which habit to delete"), nil
	}

	matches, err := store.FindActiveHabitsByNameContains(ctx, user.ID, query)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return failure(fmt.Sprintf("No matching active habit containing %q to delete", query)), nil
	}

	// The message reports the habits found above so that it agrees with Data.
	if _, err := store.MarkHabitsDeleted(ctx, user.ID, query); err != nil {
		return nil, err
	}

	return &Result{
		Success: true,
		Message: fmt.Sprintf("Successfully deleted %d habit(s) matching %q", len(matches), query),
		Data:    habit.Names(matches),
	}, nil
}
