package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/nudge/internal/errors"
	"github.com/hpungsan/nudge/internal/habit"
	"github.com/hpungsan/nudge/internal/intent"
	"github.com/hpungsan/nudge/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	store  ops.Store
	interp ops.Interpreter
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store ops.Store, interp ops.Interpreter) *Handlers {
	return &Handlers{store: store, interp: interp}
}

// PromptRequest represents the arguments for habit_prompt.
type PromptRequest struct {
	Text        string `json:"text"`
	PhoneNumber string `json:"phone_number"`
}

// ListRequest represents the arguments for habit_list.
type ListRequest struct {
	PhoneNumber string `json:"phone_number"`
}

// InterpretRequest represents the arguments for habit_interpret.
type InterpretRequest struct {
	Text string `json:"text"`
}

// ListResponse is the habit_list result.
type ListResponse struct {
	Habits []habit.Habit `json:"habits"`
	Count  int           `json:"count"`
}

// InterpretResponse is the habit_interpret result.
type InterpretResponse struct {
	Intent intent.Intent `json:"intent"`
}

// decode unmarshals MCP request arguments into a typed struct.
// Type mismatches are reported by argument name.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var result T
	b, err := json.Marshal(req.GetArguments())
	if err != nil {
		return result, fmt.Errorf("marshal args: %w", err)
	}
	if err := json.Unmarshal(b, &result); err != nil {
		var typeErr *json.UnmarshalTypeError
		if stderrors.As(err, &typeErr) {
			return result, fmt.Errorf("argument %q must be a %s", typeErr.Field, typeErr.Type)
		}
		return result, fmt.Errorf("unmarshal args: %w", err)
	}
	return result, nil
}

// HandlePrompt handles the habit_prompt tool call.
func (h *Handlers) HandlePrompt(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PromptRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Prompt(ctx, h.store, h.interp, ops.PromptInput{
		Text:        input.Text,
		PhoneNumber: input.PhoneNumber,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the habit_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	habits, err := ops.ListHabits(ctx, h.store, ops.ListInput{PhoneNumber: input.PhoneNumber})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(ListResponse{Habits: habits, Count: len(habits)})
}

// HandleInterpret handles the habit_interpret tool call.
func (h *Handlers) HandleInterpret(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[InterpretRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if strings.TrimSpace(input.Text) == "" {
		return errorResult(errors.NewInvalidRequest("text is required")), nil
	}

	return successResult(InterpretResponse{Intent: h.interp.Interpret(ctx, input.Text)})
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are not exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var nErr *errors.NudgeError
	if stderrors.As(err, &nErr) && nErr.Code != errors.ErrInternal {
		errorObj := map[string]any{
			"code":    nErr.Code,
			"message": nErr.Message,
			"status":  nErr.Status,
		}
		if nErr.Details != nil {
			errorObj["details"] = nErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
