package habit

// Status is the logical lifecycle state of a habit.
// Deleted habits are kept in the store but excluded from listing and matching.
type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

// Frequency types produced by the interpreter. The set is open: the remote
// model may return other values and they are stored as given.
const (
	FrequencyDaily       = "daily"
	FrequencyWeekly      = "weekly"
	FrequencyTimesPerDay = "times_per_day"
)

// User owns a set of habits and is addressed by phone number.
type User struct {
	// ID is a ULID that uniquely identifies this user
	ID string `json:"id"`

	// PhoneNumber is the normalized phone number (unique)
	PhoneNumber string `json:"phoneNumber"`

	// CreatedAt is the Unix timestamp when the user was first seen
	CreatedAt int64 `json:"createdAt"`
}

// Habit is a recurring practice tracked for one user.
type Habit struct {
	// ID is a ULID that uniquely identifies this habit
	ID string `json:"id"`

	// UserID is the owning user's ID
	UserID string `json:"userId"`

	// HabitName is the habit as extracted from the request text
	HabitName string `json:"habitName"`

	// FrequencyType is daily, weekly, times_per_day, or a model-supplied value
	FrequencyType string `json:"frequencyType"`

	// FrequencyTimes is the decimal count, or "" when the request carried none
	FrequencyTimes string `json:"frequencyTimes"`

	// Status is active until the habit is deleted
	Status Status `json:"status"`

	// CreatedAt is the Unix timestamp when the habit was created
	CreatedAt int64 `json:"createdAt"`

	// UpdatedAt is the Unix timestamp of the last status change
	UpdatedAt int64 `json:"updatedAt"`
}

// Active reports whether the habit has not been deleted.
func (h *Habit) Active() bool {
	return h.Status == StatusActive
}

// Names returns the habit names in order.
func Names(habits []Habit) []string {
	names := make([]string, 0, len(habits))
	for _, h := range habits {
		names = append(names, h.HabitName)
	}
	return names
}
