package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/hpungsan/nudge/internal/config"
	"github.com/hpungsan/nudge/internal/db"
	"github.com/hpungsan/nudge/internal/habit"
	"github.com/hpungsan/nudge/internal/intent"
)

// setupTestDeps creates deps backed by a temporary database and the keyword
// interpreter, writing command output to the returned buffer.
func setupTestDeps(t *testing.T) (*deps, *bytes.Buffer) {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	out := &bytes.Buffer{}
	cfg := config.DefaultConfig()
	cfg.ModelProvider = config.ProviderNone

	return &deps{
		store:  db.NewStore(database),
		interp: intent.NewInterpreter(nil, nil),
		cfg:    cfg,
		logger: zap.NewNop(),
		out:    out,
	}, out
}

func run(t *testing.T, d *deps, args ...string) error {
	t.Helper()
	return newCLIApp(d).Run(append([]string{"nudge"}, args...))
}

func TestPromptCommand(t *testing.T) {
	d, out := setupTestDeps(t)

	if err := run(t, d, "prompt", "--phone", "555", "I want to drink water 3 times a day"); err != nil {
		t.Fatalf("prompt failed: %v", err)
	}

	var raw struct {
		Action string `json:"action"`
		Result struct {
			Success bool        `json:"success"`
			Data    habit.Habit `json:"data"`
		} `json:"result"`
	}
	if err := json.Unmarshal(out.Bytes(), &raw); err != nil {
		t.Fatalf("decode %q: %v", out.String(), err)
	}
	if raw.Action != "create" || !raw.Result.Success {
		t.Fatalf("output = %s", out.String())
	}
	if raw.Result.Data.HabitName != "drink water" || raw.Result.Data.FrequencyTimes != "3" {
		t.Errorf("created = %+v", raw.Result.Data)
	}
}

func TestPromptCommand_MultipleArgsJoined(t *testing.T) {
	d, out := setupTestDeps(t)

	if err := run(t, d, "prompt", "--phone", "555", "remind", "me", "to", "stretch", "daily"); err != nil {
		t.Fatalf("prompt failed: %v", err)
	}
	if !strings.Contains(out.String(), `"habitName": "stretch"`) {
		t.Errorf("output = %s", out.String())
	}
}

func TestPromptCommand_MissingText(t *testing.T) {
	d, _ := setupTestDeps(t)

	err := run(t, d, "prompt", "--phone", "555")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "[INVALID_REQUEST] Missing text or phoneNumber") {
		t.Errorf("error = %v", err)
	}
}

func TestPromptCommand_MissingPhoneFlag(t *testing.T) {
	d, _ := setupTestDeps(t)

	if err := run(t, d, "prompt", "show my habits"); err == nil {
		t.Fatal("expected error for missing --phone")
	}
}

func TestListCommand(t *testing.T) {
	d, out := setupTestDeps(t)

	for _, text := range []string{"Remind me to read daily", "Go hiking every week"} {
		if err := run(t, d, "prompt", "--phone", "555", text); err != nil {
			t.Fatalf("prompt failed: %v", err)
		}
	}
	out.Reset()

	if err := run(t, d, "list", "--phone", "555"); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	var habits []habit.Habit
	if err := json.Unmarshal(out.Bytes(), &habits); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(habits) != 2 {
		t.Errorf("habits = %d, want 2", len(habits))
	}
}

func TestListCommand_UnknownUser(t *testing.T) {
	d, out := setupTestDeps(t)

	if err := run(t, d, "list", "--phone", "nobody"); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "[]" {
		t.Errorf("output = %q, want []", got)
	}
}

func TestInterpretCommand(t *testing.T) {
	d, out := setupTestDeps(t)

	if err := run(t, d, "interpret", "delete", "smoking"); err != nil {
		t.Fatalf("interpret failed: %v", err)
	}

	var output InterpretOutput
	if err := json.Unmarshal(out.Bytes(), &output); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if output.Intent.Action != intent.ActionDelete || output.Intent.HabitName != "smoking" {
		t.Errorf("intent = %+v", output.Intent)
	}
	if output.Source != intent.SourceFallback {
		t.Errorf("source = %q, want fallback", output.Source)
	}

	// Nothing was stored
	out.Reset()
	if err := run(t, d, "list", "--phone", "555"); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if strings.TrimSpace(out.String()) != "[]" {
		t.Errorf("interpret should not write, list = %s", out.String())
	}
}

func TestInterpretCommand_Empty(t *testing.T) {
	d, _ := setupTestDeps(t)

	if err := run(t, d, "interpret"); err == nil {
		t.Fatal("expected error")
	}
}

func TestReportCommand(t *testing.T) {
	d, out := setupTestDeps(t)

	if err := run(t, d, "prompt", "--phone", "555", "Remind me to read daily"); err != nil {
		t.Fatalf("prompt failed: %v", err)
	}
	out.Reset()

	if err := run(t, d, "report", "--phone", "555"); err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "# Habits for 555") {
		t.Errorf("report = %q", out.String())
	}
	if !strings.Contains(out.String(), "| read | every day |") {
		t.Errorf("report missing row: %q", out.String())
	}
}

func TestIsCLIMode(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{args: []string{"nudge"}, want: false},
		{args: []string{"nudge", "serve"}, want: true},
		{args: []string{"nudge", "prompt"}, want: true},
		{args: []string{"nudge", "--help"}, want: true},
		{args: []string{"nudge", "--verbose", "list"}, want: true},
		{args: []string{"nudge", "bogus"}, want: false},
	}

	for _, tt := range tests {
		if got := isCLIMode(tt.args); got != tt.want {
			t.Errorf("isCLIMode(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestWantsStderrLogs(t *testing.T) {
	if !wantsStderrLogs([]string{"nudge", "serve"}) {
		t.Error("serve should log to stderr")
	}
	if !wantsStderrLogs([]string{"nudge", "--verbose", "list", "--phone", "1"}) {
		t.Error("--verbose should log to stderr")
	}
	if wantsStderrLogs([]string{"nudge", "list", "--phone", "1"}) {
		t.Error("list should not log to stderr")
	}
	if wantsStderrLogs([]string{"nudge"}) {
		t.Error("MCP mode must keep stderr quiet")
	}
}

func TestBaseDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NUDGE_HOME", dir)

	got, err := baseDir()
	if err != nil {
		t.Fatalf("baseDir: %v", err)
	}
	if got != dir {
		t.Errorf("baseDir() = %q, want %q", got, dir)
	}
}

func TestNewInterpreter_FallsBackWhenModelUnavailable(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg := config.DefaultConfig()
	interp, client := newInterpreter(t.Context(), cfg, zap.NewNop())
	if client != nil {
		t.Error("client should be nil without an API key")
	}
	if got := interp.Interpret(t.Context(), "show my habits"); got.Action != intent.ActionList {
		t.Errorf("action = %q, want list", got.Action)
	}
}
