package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/nudge/internal/config"
	"github.com/hpungsan/nudge/internal/db"
	"github.com/hpungsan/nudge/internal/errors"
	"github.com/hpungsan/nudge/internal/habit"
	"github.com/hpungsan/nudge/internal/intent"
	"github.com/hpungsan/nudge/internal/ops"
)

// testSetup creates a temporary database-backed Handlers for testing.
func testSetup(t *testing.T) *Handlers {
	t.Helper()

	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return NewHandlers(db.NewStore(database), intent.NewInterpreter(nil, nil))
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func errorCode(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if !result.IsError {
		t.Fatalf("expected error result, got %s", resultText(t, result))
	}
	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	return payload.Error.Code
}

func TestHandlePrompt(t *testing.T) {
	h := testSetup(t)
	ctx := context.Background()

	result, err := h.HandlePrompt(ctx, makeRequest(map[string]any{
		"text":         "I want to drink water 3 times a day",
		"phone_number": "555",
	}))
	if err != nil {
		t.Fatalf("HandlePrompt error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}

	var out struct {
		Action string `json:"action"`
		Result struct {
			Success bool        `json:"success"`
			Data    habit.Habit `json:"data"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Action != "create" || !out.Result.Success || out.Result.Data.HabitName != "drink water" {
		t.Errorf("out = %+v", out)
	}
}

func TestHandlePrompt_Validation(t *testing.T) {
	h := testSetup(t)

	tests := []struct {
		name string
		args map[string]any
	}{
		{name: "missing text", args: map[string]any{"phone_number": "555"}},
		{name: "missing phone", args: map[string]any{"text": "show my habits"}},
		{name: "wrong type", args: map[string]any{"text": 42, "phone_number": "555"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandlePrompt(context.Background(), makeRequest(tt.args))
			if err != nil {
				t.Fatalf("HandlePrompt error: %v", err)
			}
			if code := errorCode(t, result); code != string(errors.ErrInvalidRequest) {
				t.Errorf("code = %q, want INVALID_REQUEST", code)
			}
		})
	}
}

func TestHandleList(t *testing.T) {
	h := testSetup(t)
	ctx := context.Background()

	for _, text := range []string{"Remind me to read daily", "Go hiking every week"} {
		if _, err := h.HandlePrompt(ctx, makeRequest(map[string]any{"text": text, "phone_number": "555"})); err != nil {
			t.Fatalf("HandlePrompt: %v", err)
		}
	}

	result, err := h.HandleList(ctx, makeRequest(map[string]any{"phone_number": "555"}))
	if err != nil {
		t.Fatalf("HandleList error: %v", err)
	}

	var out ListResponse
	if err := json.Unmarshal([]byte(resultText(t, result)), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 2 || len(out.Habits) != 2 {
		t.Errorf("out = %+v", out)
	}
}

func TestHandleList_UnknownUser(t *testing.T) {
	h := testSetup(t)

	result, err := h.HandleList(context.Background(), makeRequest(map[string]any{"phone_number": "nobody"}))
	if err != nil {
		t.Fatalf("HandleList error: %v", err)
	}
	var out ListResponse
	if err := json.Unmarshal([]byte(resultText(t, result)), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Habits == nil || len(out.Habits) != 0 || out.Count != 0 {
		t.Errorf("out = %+v, want empty habits array", out)
	}
}

func TestHandleList_MissingPhone(t *testing.T) {
	h := testSetup(t)

	result, err := h.HandleList(context.Background(), makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("HandleList error: %v", err)
	}
	if code := errorCode(t, result); code != string(errors.ErrInvalidRequest) {
		t.Errorf("code = %q", code)
	}
}

func TestHandleInterpret(t *testing.T) {
	h := testSetup(t)

	result, err := h.HandleInterpret(context.Background(), makeRequest(map[string]any{"text": "delete smoking"}))
	if err != nil {
		t.Fatalf("HandleInterpret error: %v", err)
	}

	var out InterpretResponse
	if err := json.Unmarshal([]byte(resultText(t, result)), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Intent.Action != intent.ActionDelete || out.Intent.HabitName != "smoking" {
		t.Errorf("intent = %+v", out.Intent)
	}

	result, err = h.HandleInterpret(context.Background(), makeRequest(map[string]any{"text": " "}))
	if err != nil {
		t.Fatalf("HandleInterpret error: %v", err)
	}
	if code := errorCode(t, result); code != string(errors.ErrInvalidRequest) {
		t.Errorf("code = %q", code)
	}
}

// brokenStore fails every user lookup with an untyped error.
type brokenStore struct{ ops.Store }

func (brokenStore) FindUserByPhone(context.Context, string) (*habit.User, error) {
	return nil, fmt.Errorf("open /home/user/.nudge/nudge.db: permission denied")
}

func TestErrorResult_HidesInternalDetails(t *testing.T) {
	h := NewHandlers(brokenStore{}, intent.NewInterpreter(nil, nil))

	result, err := h.HandlePrompt(context.Background(), makeRequest(map[string]any{"text": "list", "phone_number": "555"}))
	if err != nil {
		t.Fatalf("HandlePrompt error: %v", err)
	}
	if code := errorCode(t, result); code != string(errors.ErrInternal) {
		t.Errorf("code = %q, want INTERNAL", code)
	}
	if text := resultText(t, result); strings.Contains(text, "permission denied") || strings.Contains(text, ".nudge") {
		t.Errorf("internal details leaked: %s", text)
	}
}

func TestNewServer_DisabledTools(t *testing.T) {
	h := testSetup(t)
	cfg := config.DefaultConfig()
	cfg.DisabledTools = []string{"habit_interpret"}

	s := NewServer(h.store, h.interp, cfg, "test")
	tools := s.ListTools()
	if _, ok := tools["habit_interpret"]; ok {
		t.Error("disabled tool was registered")
	}
	for _, name := range []string{"habit_prompt", "habit_list"} {
		if _, ok := tools[name]; !ok {
			t.Errorf("tool %s not registered", name)
		}
	}
}

func TestValidateDisabledTools(t *testing.T) {
	unknown := ValidateDisabledTools([]string{"habit_list", "habit_archive"})
	if len(unknown) != 1 || unknown[0] != "habit_archive" {
		t.Errorf("unknown = %v", unknown)
	}
}

func TestAllToolNames(t *testing.T) {
	got := AllToolNames()
	want := []string{"habit_interpret", "habit_list", "habit_prompt"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("AllToolNames() = %v, want %v", got, want)
	}
}
