package ops

import (
	"context"

	"github.com/hpungsan/nudge/internal/errors"
	"github.com/hpungsan/nudge/internal/habit"
	"github.com/hpungsan/nudge/internal/intent"
)

// PromptInput contains parameters for the Prompt operation.
type PromptInput struct {
	Text        string
	PhoneNumber string
}

// PromptOutput contains the result of the Prompt operation.
type PromptOutput struct {
	Action intent.Action `json:"action"`
	Result *Result       `json:"result"`
}

// Prompt handles one free-form request: validate, find or register the user,
// interpret the text, dispatch the intent.
// Invalid input is rejected before any store access.
func Prompt(ctx context.Context, store Store, interp Interpreter, input PromptInput) (*PromptOutput, error) {
	phone := habit.NormalizePhone(input.PhoneNumber)
	if isBlank(input.Text) || phone == "" {
		return nil, errors.NewInvalidRequest("Missing text or phoneNumber")
	}

	user, err := findOrCreateUser(ctx, store, phone)
	if err != nil {
		return nil, err
	}

	in := interp.Interpret(ctx, input.Text)

	result, err := Dispatch(ctx, store, in, user)
	if err != nil {
		return nil, err
	}

	return &PromptOutput{Action: in.Action, Result: result}, nil
}
