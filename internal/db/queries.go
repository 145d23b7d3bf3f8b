package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/hpungsan/nudge/internal/errors"
	"github.com/hpungsan/nudge/internal/habit"
)

const habitColumns = `id, user_id, habit_name, frequency_type, frequency_times, status, created_at, updated_at`

// InsertUser stores a new user.
// Returns a UNIQUE_CONSTRAINT error if the phone number is already registered.
func InsertUser(ctx context.Context, db *sql.DB, u *habit.User) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO users (id, phone_number, created_at) VALUES (?, ?, ?)`,
		u.ID, u.PhoneNumber, u.CreatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return errors.NewUniqueConstraint("phone number already registered")
		}
		return errors.NewInternal(err)
	}
	return nil
}

// GetUserByPhone retrieves a user by normalized phone number.
func GetUserByPhone(ctx context.Context, db *sql.DB, phone string) (*habit.User, error) {
	var u habit.User
	err := db.QueryRowContext(ctx,
		`SELECT id, phone_number, created_at FROM users WHERE phone_number = ?`,
		phone,
	).Scan(&u.ID, &u.PhoneNumber, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("user", phone)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &u, nil
}

// InsertHabit stores a new habit.
func InsertHabit(ctx context.Context, db *sql.DB, h *habit.Habit) error {
	query := `INSERT INTO habits (` + habitColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := db.ExecContext(ctx, query,
		h.ID, h.UserID, h.HabitName, h.FrequencyType, h.FrequencyTimes,
		string(h.Status), h.CreatedAt, h.UpdatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// ListActiveHabits returns a user's active habits, oldest first.
// Always returns a non-nil slice on success.
func ListActiveHabits(ctx context.Context, db *sql.DB, userID string) ([]habit.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits
		WHERE user_id = ? AND status = 'active'
		ORDER BY created_at ASC, id ASC`

	return queryHabits(ctx, db, query, userID)
}

// FindActiveHabitsByNameContains returns a user's active habits whose name
// contains substr. Matching is case-sensitive (instr, not LIKE).
func FindActiveHabitsByNameContains(ctx context.Context, db *sql.DB, userID, substr string) ([]habit.Habit, error) {
	if substr == "" {
		return nil, errors.NewInvalidRequest("name filter must not be empty")
	}

	query := `SELECT ` + habitColumns + ` FROM habits
		WHERE user_id = ? AND status = 'active' AND instr(habit_name, ?) > 0
		ORDER BY created_at ASC, id ASC`

	return queryHabits(ctx, db, query, userID, substr)
}

// MarkHabitsDeleted transitions every active habit of the user whose name
// contains substr to deleted in one statement. Returns the number affected.
func MarkHabitsDeleted(ctx context.Context, db *sql.DB, userID, substr string) (int, error) {
	if substr == "" {
		return 0, errors.NewInvalidRequest("name filter must not be empty")
	}

	now := time.Now().Unix()

	query := `
		UPDATE habits
		SET status = 'deleted', updated_at = ?
		WHERE user_id = ? AND status = 'active' AND instr(habit_name, ?) > 0
	`

	result, err := db.ExecContext(ctx, query, now, userID, substr)
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	return int(rowsAffected), nil
}

// queryHabits runs a habit SELECT and scans every row.
func queryHabits(ctx context.Context, db *sql.DB, query string, args ...any) ([]habit.Habit, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	habits := []habit.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		habits = append(habits, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return habits, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanHabit scans a single row into a Habit struct.
func scanHabit(row rowScanner) (*habit.Habit, error) {
	var (
		h      habit.Habit
		status string
	)

	err := row.Scan(
		&h.ID, &h.UserID, &h.HabitName, &h.FrequencyType, &h.FrequencyTimes,
		&status, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	h.Status = habit.Status(status)

	return &h, nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
