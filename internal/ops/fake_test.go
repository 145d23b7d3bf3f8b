package ops

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hpungsan/nudge/internal/errors"
	"github.com/hpungsan/nudge/internal/habit"
	"github.com/hpungsan/nudge/internal/intent"
)

// memStore is an in-memory Store with per-method failure injection.
type memStore struct {
	mu     sync.Mutex
	users  map[string]*habit.User
	habits []*habit.Habit
	seq    int

	failOn    string // method name that returns failErr
	failErr   error
	writes    int
	userRace  bool // CreateUser reports a unique violation after inserting
	findCalls int
}

func newMemStore() *memStore {
	return &memStore{users: map[string]*habit.User{}}
}

func (s *memStore) fail(method string) error {
	if s.failOn == method {
		if s.failErr != nil {
			return s.failErr
		}
		return fmt.Errorf("%s: disk I/O error", method)
	}
	return nil
}

func (s *memStore) nextID() string {
	s.seq++
	return fmt.Sprintf("id-%03d", s.seq)
}

func (s *memStore) FindUserByPhone(_ context.Context, phone string) (*habit.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findCalls++
	if err := s.fail("FindUserByPhone"); err != nil {
		return nil, err
	}
	u, ok := s.users[phone]
	if !ok {
		return nil, errors.NewNotFound("user", phone)
	}
	return u, nil
}

func (s *memStore) CreateUser(_ context.Context, phone string) (*habit.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CreateUser"); err != nil {
		return nil, err
	}
	if _, ok := s.users[phone]; ok {
		return nil, errors.NewUniqueConstraint("phone number already registered")
	}
	u := &habit.User{ID: s.nextID(), PhoneNumber: phone}
	s.users[phone] = u
	s.writes++
	if s.userRace {
		return nil, errors.NewUniqueConstraint("phone number already registered")
	}
	return u, nil
}

func (s *memStore) CreateHabit(_ context.Context, userID, name, frequencyType, frequencyTimes string) (*habit.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CreateHabit"); err != nil {
		return nil, err
	}
	h := &habit.Habit{
		ID:             s.nextID(),
		UserID:         userID,
		HabitName:      name,
		FrequencyType:  frequencyType,
		FrequencyTimes: frequencyTimes,
		Status:         habit.StatusActive,
	}
	s.habits = append(s.habits, h)
	s.writes++
	return h, nil
}

func (s *memStore) ListActiveHabits(_ context.Context, userID string) ([]habit.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("ListActiveHabits"); err != nil {
		return nil, err
	}
	var out []habit.Habit
	for _, h := range s.habits {
		if h.UserID == userID && h.Active() {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (s *memStore) FindActiveHabitsByNameContains(_ context.Context, userID, substring string) ([]habit.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("FindActiveHabitsByNameContains"); err != nil {
		return nil, err
	}
	out := []habit.Habit{}
	for _, h := range s.habits {
		if h.UserID == userID && h.Active() && strings.Contains(h.HabitName, substring) {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (s *memStore) MarkHabitsDeleted(_ context.Context, userID, substring string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("MarkHabitsDeleted"); err != nil {
		return 0, err
	}
	n := 0
	for _, h := range s.habits {
		if h.UserID == userID && h.Active() && strings.Contains(h.HabitName, substring) {
			h.Status = habit.StatusDeleted
			n++
		}
	}
	if n > 0 {
		s.writes++
	}
	return n, nil
}

func (s *memStore) seedHabit(userID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.habits = append(s.habits, &habit.Habit{
		ID:            s.nextID(),
		UserID:        userID,
		HabitName:     name,
		FrequencyType: habit.FrequencyDaily,
		Status:        habit.StatusActive,
	})
}

// fixedInterpreter returns the same intent for every text.
type fixedInterpreter struct {
	in    intent.Intent
	calls int
}

func (f *fixedInterpreter) Interpret(context.Context, string) intent.Intent {
	f.calls++
	return f.in
}

func intPtr(n int) *int { return &n }
