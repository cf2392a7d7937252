package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "communityreg/internal/delivery/http/helpers"
	"communityreg/internal/delivery/http/middleware"
	"communityreg/internal/domain"
)

type ParticipantController struct {
	Logger              *slog.Logger
	Service             domain.ParticipantService
	RegistrationService domain.RegistrationService
}

func NewParticipantController(logger *slog.Logger, svc domain.ParticipantService, registrationSvc domain.RegistrationService) *ParticipantController {
	return &ParticipantController{
		Logger:              logger,
		Service:             svc,
		RegistrationService: registrationSvc,
	}
}

// ListMine godoc
// @Summary List the caller's participants
// @Description Returns every participant linked to the authenticated caregiver, ordered by full name.
// @Tags participants
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data is an array of participants"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/participants [get]
func (c *ParticipantController) ListMine(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	participants, err := c.Service.FindAllForOwner(r.Context(), id.UserID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, participants)
}

// LinkRequest is the request body for POST /me/participants.
type LinkRequest struct {
	NRIC string `json:"nric"`
	Name string `json:"name"`
}

// Validate implements helpers.Validator.
func (l LinkRequest) Validate() []string {
	var errs []string
	if domain.NormalizeNRIC(l.NRIC) == "" {
		errs = append(errs, "nric is required")
	}
	if strings.TrimSpace(l.Name) == "" {
		errs = append(errs, "name is required")
	}
	return errs
}

// LinkResponse is the response body for POST /me/participants.
type LinkResponse struct {
	Outcome     domain.LinkOutcome  `json:"outcome"`
	Participant *domain.Participant `json:"participant,omitempty"`
}

// Link godoc
// @Summary Link a participant to the caller
// @Description Attaches the participant with the given NRIC to the authenticated caregiver, creating the profile if absent. Refused when the participant is already linked to another account; unlink there first.
// @Tags participants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body LinkRequest true "Participant identity"
// @Success 200 {object} helpers.APIResponse "data contains outcome and participant (outcome: already_linked_to_caller or linked_existing)"
// @Success 201 {object} helpers.APIResponse "data contains outcome and participant (outcome: created_and_linked)"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (outcome: already_linked_to_other)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/participants [post]
func (c *ParticipantController) Link(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req LinkRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	participant, outcome, err := c.Service.Link(r.Context(), req.NRIC, req.Name, id.UserID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}

	resp := LinkResponse{Outcome: outcome, Participant: participant}
	switch outcome {
	case domain.LinkCreatedAndLinked:
		h.WriteJSONSuccess(w, http.StatusCreated, resp)
	case domain.LinkAlreadyLinkedToOther:
		// The participant is withheld from a caller who does not own it.
		h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "participant is already linked to another account")
	default:
		h.WriteJSONSuccess(w, http.StatusOK, resp)
	}
}

// Unlink godoc
// @Summary Unlink a participant from the caller
// @Description Clears the caregiver link. Only the current owner may unlink; the participant and all registration history are retained.
// @Tags participants
// @Produce json
// @Security BearerAuth
// @Param participantID path int true "Participant ID"
// @Success 200 {object} helpers.APIResponse "data contains the outcome"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (caller is not the owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/participants/{participantID} [delete]
func (c *ParticipantController) Unlink(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	participantID, ok := pathID(r, "participantID")
	if !ok {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid participantID")
		return
	}

	outcome, err := c.Service.Unlink(r.Context(), participantID, id.UserID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	switch outcome {
	case domain.UnlinkNotFound:
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "participant not found")
	case domain.UnlinkNotAuthorized:
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "only the current owner may unlink")
	default:
		h.WriteJSONSuccess(w, http.StatusOK, map[string]domain.UnlinkOutcome{"outcome": outcome})
	}
}

// MyRegisteredEvents godoc
// @Summary Get event ids the caller's participants are registered for
// @Description Returns the union of event ids across every participant owned by the authenticated caregiver. Lets the frontend flag already-registered events in one query.
// @Tags participants
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains event_ids"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/registrations [get]
func (c *ParticipantController) MyRegisteredEvents(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	set, err := c.RegistrationService.RegisteredEventIDsForOwner(r.Context(), id.UserID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string][]int64{"event_ids": ids})
}
