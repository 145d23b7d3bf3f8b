// Package intent turns free-form habit requests into structured intents.
//
// An Interpreter asks a remote Model first and falls back to a deterministic
// keyword analyzer whenever that call fails in any way. Interpretation never
// returns an error to the caller.
package intent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Action is one of the four habit operations.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"
)

// Actions lists the full action taxonomy in prompt order.
var Actions = []Action{ActionCreate, ActionUpdate, ActionDelete, ActionList}

// UnknownHabitName is the placeholder the fallback analyzer uses when a
// delete request names no habit. It must never be matched against stored names.
const UnknownHabitName = "unknown"

// Intent is the structured reading of one request.
// Only Action is guaranteed; the other fields may be empty.
type Intent struct {
	Action         Action `json:"action"`
	HabitName      string `json:"habit_name,omitempty"`
	FrequencyType  string `json:"frequency_type,omitempty"`
	FrequencyTimes *int   `json:"frequency_times,omitempty"`
}

// Valid reports whether a is part of the taxonomy.
func (a Action) Valid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete, ActionList:
		return true
	}
	return false
}

// payload mirrors the remote model's JSON object. Field types are loose so
// that Parse can report precise shape errors.
type payload struct {
	Action         string          `json:"action"`
	HabitName      *string         `json:"habit_name"`
	FrequencyType  *string         `json:"frequency_type"`
	FrequencyTimes json.RawMessage `json:"frequency_times"`
}

// Parse decodes a remote model response into an Intent.
// It accepts an optional Markdown code fence around the object.
// frequency_times may be a JSON integer, a numeric string, or null.
func Parse(raw []byte) (Intent, error) {
	raw = stripCodeFence(bytes.TrimSpace(raw))
	if len(raw) == 0 {
		return Intent{}, fmt.Errorf("empty payload")
	}

	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Intent{}, fmt.Errorf("decode payload: %w", err)
	}

	action := Action(strings.ToLower(strings.TrimSpace(p.Action)))
	if !action.Valid() {
		return Intent{}, fmt.Errorf("unknown action %q", p.Action)
	}

	in := Intent{Action: action}
	if p.HabitName != nil {
		in.HabitName = strings.TrimSpace(*p.HabitName)
	}
	if p.FrequencyType != nil {
		in.FrequencyType = strings.TrimSpace(*p.FrequencyType)
	}

	times, err := parseTimes(p.FrequencyTimes)
	if err != nil {
		return Intent{}, err
	}
	in.FrequencyTimes = times

	return in, nil
}

// parseTimes accepts null, an integral number, or a string holding one.
func parseTimes(raw json.RawMessage) (*int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decode frequency_times: %w", err)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("frequency_times %q is not a number", s)
		}
		return &n, nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode frequency_times: %w", err)
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return nil, fmt.Errorf("frequency_times %v is not an integer", f)
	}
	n := int(f)
	return &n, nil
}

// stripCodeFence removes a ```json ... ``` wrapper if present.
func stripCodeFence(b []byte) []byte {
	if !bytes.HasPrefix(b, []byte("```")) {
		return b
	}
	b = b[3:]
	if nl := bytes.IndexByte(b, '\n'); nl >= 0 {
		b = b[nl+1:]
	} else {
		return nil
	}
	b = bytes.TrimSpace(b)
	b = bytes.TrimSuffix(b, []byte("```"))
	return bytes.TrimSpace(b)
}
