package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	h "communityreg/internal/delivery/http/helpers"
	"communityreg/internal/delivery/http/middleware"
	"communityreg/internal/domain"
)

type EventController struct {
	Logger              *slog.Logger
	EventService        domain.EventService
	RegistrationService domain.RegistrationService
	ParticipantService  domain.ParticipantService
}

func NewEventController(
	logger *slog.Logger,
	eventSvc domain.EventService,
	registrationSvc domain.RegistrationService,
	participantSvc domain.ParticipantService,
) *EventController {
	return &EventController{
		Logger:              logger,
		EventService:        eventSvc,
		RegistrationService: registrationSvc,
		ParticipantService:  participantSvc,
	}
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil && id > 0
}

// ListEvents godoc
// @Summary List events with live registration counts
// @Description Public catalog view: every event paired with its current registration count and an is_full flag. Counts are computed at call time.
// @Tags events
// @Produce json
// @Success 200 {object} helpers.APIResponse "data is an array of {event, count, is_full}"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	items, err := c.EventService.ListWithCounts(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, items)
}

// RegisterRequest is the request body for POST /events/{eventID}/registrations.
// NRIC and name are required for anonymous (guest) registrations and ignored
// for authenticated callers, who register their primary participant.
type RegisterRequest struct {
	NRIC string `json:"nric"`
	Name string `json:"name"`
}

// Register godoc
// @Summary Register a participant for an event
// @Description Authenticated callers register their primary participant. Anonymous callers supply nric and name; a shadow participant profile is resolved or created first. Source is recorded as "online".
// @Tags events
// @Accept json
// @Produce json
// @Param eventID path int true "Event ID"
// @Param body body RegisterRequest false "Guest registration data (anonymous callers only)"
// @Success 201 {object} helpers.APIResponse "data contains the created registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (missing guest fields, no linked participant)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already registered or event full)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrations [post]
func (c *EventController) Register(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(r, "eventID")
	if !ok {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid eventID")
		return
	}

	var participant *domain.Participant
	if id, authed := middleware.IdentityFromContext(r.Context()); authed {
		p, err := c.ParticipantService.FindPrimaryForOwner(r.Context(), id.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "no participant profile linked to your account")
				return
			}
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
			return
		}
		participant = p
	} else {
		var req RegisterRequest
		if !h.DecodeAndValidate(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.NRIC) == "" || strings.TrimSpace(req.Name) == "" {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "nric and name are required for guest registration")
			return
		}
		p, err := c.ParticipantService.ResolveOrCreate(r.Context(), req.NRIC, req.Name, nil)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid nric or name")
				return
			}
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
			return
		}
		participant = p
	}

	reg, err := c.RegistrationService.Register(r.Context(), eventID, participant.ID, domain.SourceOnline)
	if err != nil {
		c.writeRegisterError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, reg)
}

// writeRegisterError maps registration pipeline outcomes to HTTP responses.
// Capacity and duplicate outcomes are expected and not logged as errors.
func (c *EventController) writeRegisterError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrEventFull):
		h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "event is fully booked")
	case errors.Is(err, domain.ErrAlreadyRegistered):
		h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "participant is already registered for this event")
	case errors.Is(err, domain.ErrInvalidInput):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
	}
}
