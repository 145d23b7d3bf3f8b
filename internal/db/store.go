package db

import (
	"context"
	"crypto/rand"
	"database/sql"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/nudge/internal/errors"
	"github.com/hpungsan/nudge/internal/habit"
)

// Store adapts the query functions to the record-keeper contract used by ops.
// It assigns IDs and timestamps; callers pass already-normalized values.
type Store struct {
	db *sql.DB
}

// NewStore wraps an initialized database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// FindUserByPhone returns the user registered under phone, or NOT_FOUND.
func (s *Store) FindUserByPhone(ctx context.Context, phone string) (*habit.User, error) {
	return GetUserByPhone(ctx, s.db, phone)
}

// CreateUser registers a new user.
func (s *Store) CreateUser(ctx context.Context, phone string) (*habit.User, error) {
	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	u := &habit.User{
		ID:          id,
		PhoneNumber: phone,
		CreatedAt:   time.Now().Unix(),
	}
	if err := InsertUser(ctx, s.db, u); err != nil {
		return nil, err
	}
	return u, nil
}

// CreateHabit stores a new active habit for userID.
func (s *Store) CreateHabit(ctx context.Context, userID, name, frequencyType, frequencyTimes string) (*habit.Habit, error) {
	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	now := time.Now().Unix()
	h := &habit.Habit{
		ID:             id,
		UserID:         userID,
		HabitName:      name,
		FrequencyType:  frequencyType,
		FrequencyTimes: frequencyTimes,
		Status:         habit.StatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := InsertHabit(ctx, s.db, h); err != nil {
		return nil, err
	}
	return h, nil
}

// ListActiveHabits returns the user's active habits.
func (s *Store) ListActiveHabits(ctx context.Context, userID string) ([]habit.Habit, error) {
	return ListActiveHabits(ctx, s.db, userID)
}

// FindActiveHabitsByNameContains returns active habits whose name contains substring.
func (s *Store) FindActiveHabitsByNameContains(ctx context.Context, userID, substring string) ([]habit.Habit, error) {
	return FindActiveHabitsByNameContains(ctx, s.db, userID, substring)
}

// MarkHabitsDeleted soft-deletes active habits whose name contains substring.
func (s *Store) MarkHabitsDeleted(ctx context.Context, userID, substring string) (int, error) {
	return MarkHabitsDeleted(ctx, s.db, userID, substring)
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
