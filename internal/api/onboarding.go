package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/opensensemap/osem-map/internal/onboarding"
	"github.com/opensensemap/osem-map/internal/wizard"
)

const maxStepBody = 64 << 10

// StartOnboarding handles POST /api/v1/onboarding.
//
//	@Summary		Start onboarding
//	@Tags			onboarding
//	@Produce		json
//	@Success		201	{object}	onboarding.State
//	@Router			/api/v1/onboarding [post]
func (h *Handler) StartOnboarding(w http.ResponseWriter, _ *http.Request) {
	state, err := h.onboarding.Start()
	if err != nil {
		slog.Error("api: failed to start onboarding", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to start onboarding")
		return
	}
	h.writeJSON(w, http.StatusCreated, state)
}

// GetOnboarding handles GET /api/v1/onboarding/{id}.
//
//	@Summary		Get onboarding session
//	@Tags			onboarding
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	onboarding.State
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/v1/onboarding/{id} [get]
func (h *Handler) GetOnboarding(w http.ResponseWriter, r *http.Request) {
	state, err := h.onboarding.Get(r.PathValue("id"))
	h.writeOnboarding(w, state, err)
}

// NextOnboarding handles POST /api/v1/onboarding/{id}/next. The body is the current step's input.
//
//	@Summary		Validate step and advance
//	@Tags			onboarding
//	@Accept			json
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	onboarding.State
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Failure		413	{object}	ErrorResponse
//	@Failure		422	{object}	ValidationErrorResponse
//	@Router			/api/v1/onboarding/{id}/next [post]
func (h *Handler) NextOnboarding(w http.ResponseWriter, r *http.Request) {
	input, ok := h.readStepInput(w, r)
	if !ok {
		return
	}
	state, err := h.onboarding.Next(r.PathValue("id"), input)
	h.writeOnboarding(w, state, err)
}

// BackOnboarding handles POST /api/v1/onboarding/{id}/back.
//
//	@Summary		Go back one step
//	@Tags			onboarding
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	onboarding.State
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Router			/api/v1/onboarding/{id}/back [post]
func (h *Handler) BackOnboarding(w http.ResponseWriter, r *http.Request) {
	state, err := h.onboarding.Back(r.PathValue("id"))
	h.writeOnboarding(w, state, err)
}

// GoToOnboardingStep handles POST /api/v1/onboarding/{id}/steps/{step}.
//
//	@Summary		Jump to step
//	@Tags			onboarding
//	@Produce		json
//	@Param			id		path		string	true	"Session ID"
//	@Param			step	path		string	true	"Step ID"
//	@Success		200		{object}	onboarding.State
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/api/v1/onboarding/{id}/steps/{step} [post]
func (h *Handler) GoToOnboardingStep(w http.ResponseWriter, r *http.Request) {
	state, err := h.onboarding.GoTo(r.PathValue("id"), wizard.StepID(r.PathValue("step")))
	h.writeOnboarding(w, state, err)
}

// SubmitOnboarding handles POST /api/v1/onboarding/{id}/submit. The body is the last step's input.
//
//	@Summary		Submit onboarding
//	@Description	Validates the summary step and registers the device
//	@Tags			onboarding
//	@Accept			json
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	onboarding.State
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Failure		422	{object}	ValidationErrorResponse
//	@Failure		502	{object}	ErrorResponse
//	@Router			/api/v1/onboarding/{id}/submit [post]
func (h *Handler) SubmitOnboarding(w http.ResponseWriter, r *http.Request) {
	input, ok := h.readStepInput(w, r)
	if !ok {
		return
	}
	state, err := h.onboarding.Submit(r.Context(), r.PathValue("id"), input)
	h.writeOnboarding(w, state, err)
}

func (h *Handler) readStepInput(w http.ResponseWriter, r *http.Request) (json.RawMessage, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxStepBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return nil, false
		}
		h.writeError(w, http.StatusBadRequest, "failed to read request body")
		return nil, false
	}
	return json.RawMessage(body), true
}

// writeOnboarding maps onboarding and wizard errors to status codes.
func (h *Handler) writeOnboarding(w http.ResponseWriter, state onboarding.State, err error) {
	if err == nil {
		h.writeJSON(w, http.StatusOK, state)
		return
	}

	var vErr *wizard.ValidationError
	var sErr *wizard.SubmitError
	switch {
	case errors.Is(err, onboarding.ErrSessionNotFound):
		h.writeError(w, http.StatusNotFound, "onboarding session not found")
	case errors.As(err, &vErr):
		h.writeJSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{
			Error: vErr.Message,
			Code:  http.StatusUnprocessableEntity,
			Step:  vErr.Step,
			Field: vErr.Field,
		})
	case errors.Is(err, wizard.ErrUnknownStep):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, wizard.ErrLastStep),
		errors.Is(err, wizard.ErrNotLastStep),
		errors.Is(err, wizard.ErrCompleted),
		errors.Is(err, wizard.ErrSubmitInProgress):
		h.writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &sErr):
		slog.Error("api: onboarding submission failed", "session", state.ID, "error", err)
		h.writeError(w, http.StatusBadGateway, "failed to register device, please retry")
	default:
		slog.Error("api: onboarding failed", "session", state.ID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
