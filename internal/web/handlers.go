package web

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/hpungsan/nudge/internal/errors"
	"github.com/hpungsan/nudge/internal/habit"
	"github.com/hpungsan/nudge/internal/ops"
)

// Handlers contains HTTP route handlers for the habit API.
type Handlers struct {
	store   ops.Store
	interp  ops.Interpreter
	logger  *zap.Logger
	version string
}

// promptRequest is the POST /prompt body.
type promptRequest struct {
	Text        string `json:"text"`
	PhoneNumber string `json:"phoneNumber"`
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// HandlePrompt handles POST /prompt: interpret free text and act on it.
func (h *Handlers) HandlePrompt(w http.ResponseWriter, r *http.Request) {
	var req promptRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.renderError(w, r, errors.NewInvalidRequest("Invalid JSON body"))
		return
	}

	out, err := ops.Prompt(r.Context(), h.store, h.interp, ops.PromptInput{
		Text:        req.Text,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.logger.Debug("prompt handled",
		zap.String("request_id", RequestIDFrom(r.Context())),
		zap.String("action", string(out.Action)),
		zap.Bool("success", out.Result.Success),
	)
	renderJSON(w, http.StatusOK, out)
}

// HandleListHabits handles GET /habits?phoneNumber=...: active habits as a JSON array.
func (h *Handlers) HandleListHabits(w http.ResponseWriter, r *http.Request) {
	habits, err := ops.ListHabits(r.Context(), h.store, ops.ListInput{
		PhoneNumber: r.URL.Query().Get("phoneNumber"),
	})
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, habits)
}

// HandleReport handles GET /habits/report?phoneNumber=...: an HTML summary.
func (h *Handlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phoneNumber")
	habits, err := ops.ListHabits(r.Context(), h.store, ops.ListInput{PhoneNumber: phone})
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.renderHTML(w, r, reportPage{
		Title:   "Habits for " + habit.NormalizePhone(phone),
		Version: h.version,
		Body:    renderMarkdown(habit.Markdown(habit.NormalizePhone(phone), habits)),
	})
}
