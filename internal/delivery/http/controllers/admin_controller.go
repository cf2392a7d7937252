package controllers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	h "communityreg/internal/delivery/http/helpers"
	"communityreg/internal/domain"
)

type AdminController struct {
	Logger              *slog.Logger
	EventService        domain.EventService
	RegistrationService domain.RegistrationService
	ParticipantService  domain.ParticipantService
}

func NewAdminController(
	logger *slog.Logger,
	eventSvc domain.EventService,
	registrationSvc domain.RegistrationService,
	participantSvc domain.ParticipantService,
) *AdminController {
	return &AdminController{
		Logger:              logger,
		EventService:        eventSvc,
		RegistrationService: registrationSvc,
		ParticipantService:  participantSvc,
	}
}

// eventFilter parses the optional event_id query parameter.
func eventFilter(r *http.Request) (*int64, error) {
	s := r.URL.Query().Get("event_id")
	if s == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid event_id %q", s)
	}
	return &id, nil
}

// ListRegistrations godoc
// @Summary List registrations (admin)
// @Description Returns registrations newest first with participant and event data included, optionally filtered to one event.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param event_id query int false "Filter to one event"
// @Success 200 {object} helpers.APIResponse "data is an array of {registration, participant, event}"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/registrations [get]
func (c *AdminController) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	filter, err := eventFilter(r)
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
		return
	}
	details, err := c.RegistrationService.ListRegistrations(r.Context(), filter)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, details)
}

// ExportRegistrations godoc
// @Summary Export registrations as CSV (admin)
// @Description Streams the registration roll as a CSV attachment, optionally filtered to one event. Columns: registration_id, event_title, participant_name, nric, source, registered_at.
// @Tags admin
// @Produce text/csv
// @Security BearerAuth
// @Param event_id query int false "Filter to one event"
// @Success 200 {string} string "CSV body"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/registrations/export [get]
func (c *AdminController) ExportRegistrations(w http.ResponseWriter, r *http.Request) {
	filter, err := eventFilter(r)
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
		return
	}
	details, err := c.RegistrationService.ListRegistrations(r.Context(), filter)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="registrations.csv"`)
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"registration_id", "event_title", "participant_name", "nric", "source", "registered_at"})
	for _, d := range details {
		_ = cw.Write([]string{
			strconv.FormatInt(d.Registration.ID, 10),
			d.Event.Title,
			d.Participant.FullName,
			d.Participant.NRIC,
			string(d.Registration.Source),
			d.Registration.CreatedAt.Format(time.RFC3339),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		c.Logger.ErrorContext(r.Context(), "csv export failed", "path", r.URL.Path, "err", err)
	}
}

// CreateEventRequest is the request body for POST /admin/events.
type CreateEventRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	MaxCapacity int     `json:"max_capacity"`
	StartTime   string  `json:"start_time"` // RFC3339
}

// Validate implements helpers.Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if c.MaxCapacity <= 0 {
		errs = append(errs, "max_capacity must be a positive integer")
	}
	if _, err := time.Parse(time.RFC3339, c.StartTime); err != nil {
		errs = append(errs, "start_time must be RFC3339")
	}
	return errs
}

// CreateEvent godoc
// @Summary Publish an event (admin)
// @Description Creates an activity with a title, optional description, positive capacity limit, and start time. Events are immutable once published.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events [post]
func (c *AdminController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	startTime, _ := time.Parse(time.RFC3339, req.StartTime)

	event, err := c.EventService.Create(r.Context(), req.Title, req.Description, req.MaxCapacity, startTime)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, event)
}

// WalkInRequest is the request body for POST /admin/events/{eventID}/walkins.
type WalkInRequest struct {
	NRIC string `json:"nric"`
	Name string `json:"name"`
}

// Validate implements helpers.Validator.
func (wr WalkInRequest) Validate() []string {
	var errs []string
	if domain.NormalizeNRIC(wr.NRIC) == "" {
		errs = append(errs, "nric is required")
	}
	if strings.TrimSpace(wr.Name) == "" {
		errs = append(errs, "name is required")
	}
	return errs
}

// RecordWalkIn godoc
// @Summary Record a walk-in registration (admin)
// @Description Resolves or creates a participant by NRIC and registers it for the event with source "walkin". Capacity and duplicate rules apply as for online registrations.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Param body body WalkInRequest true "Walk-in participant identity"
// @Success 201 {object} helpers.APIResponse "data contains the created registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already registered or event full)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/walkins [post]
func (c *AdminController) RecordWalkIn(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(r, "eventID")
	if !ok {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid eventID")
		return
	}
	var req WalkInRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	participant, err := c.ParticipantService.ResolveOrCreate(r.Context(), req.NRIC, req.Name, nil)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid nric or name")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}

	reg, err := c.RegistrationService.Register(r.Context(), eventID, participant.ID, domain.SourceWalkIn)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrEventFull):
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "event is fully booked")
		case errors.Is(err, domain.ErrAlreadyRegistered):
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "participant is already registered for this event")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		}
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, reg)
}
