package intent

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Instruction is the fixed system prompt sent with every remote request.
const Instruction = `You are a habit tracking assistant. Output strict JSON only.
Actions: create, update, delete, list.
Fields: action, habit_name, frequency_type, frequency_times.
frequency_type is one of: daily, weekly, times_per_day.
frequency_times is an integer and only applies to times_per_day.
Omit fields that the request does not mention.`

// Model is a remote classifier. Classify sends text with Instruction and
// returns the raw response payload, which should be a JSON object.
type Model interface {
	Classify(ctx context.Context, text string) (string, error)
}

// Source records which path produced an Intent.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Interpreter maps text to an Intent: one remote attempt, then the fallback.
type Interpreter struct {
	model  Model
	logger *zap.Logger
}

// NewInterpreter creates an Interpreter. A nil model means fallback only.
// A nil logger is replaced by a no-op logger.
func NewInterpreter(model Model, logger *zap.Logger) *Interpreter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interpreter{model: model, logger: logger}
}

// Interpret returns the Intent for text. It never fails.
func (i *Interpreter) Interpret(ctx context.Context, text string) Intent {
	in, _ := i.Resolve(ctx, text)
	return in
}

// Resolve is Interpret plus the path that produced the result.
func (i *Interpreter) Resolve(ctx context.Context, text string) (Intent, Source) {
	if i.model == nil {
		in := Analyze(text)
		i.logger.Debug("interpreted", zap.String("source", string(SourceFallback)), zap.String("action", string(in.Action)))
		return in, SourceFallback
	}

	start := time.Now()
	in, err := i.remote(ctx, text)
	if err == nil {
		i.logger.Debug("interpreted",
			zap.String("source", string(SourceModel)),
			zap.String("action", string(in.Action)),
			zap.Duration("elapsed", time.Since(start)),
		)
		return in, SourceModel
	}

	i.logger.Warn("remote interpretation failed, using fallback",
		zap.Error(err),
		zap.Duration("elapsed", time.Since(start)),
	)
	in = Analyze(text)
	i.logger.Debug("interpreted", zap.String("source", string(SourceFallback)), zap.String("action", string(in.Action)))
	return in, SourceFallback
}

// remote makes the single model attempt. Panics in the model are converted
// to errors so that Interpret stays total.
func (i *Interpreter) remote(ctx context.Context, text string) (in Intent, err error) {
	defer func() {
		if r := recover(); r != nil {
			in, err = Intent{}, fmt.Errorf("model panicked: %v", r)
		}
	}()

	raw, err := i.model.Classify(ctx, text)
	if err != nil {
		return Intent{}, fmt.Errorf("model call: %w", err)
	}
	return Parse([]byte(raw))
}
