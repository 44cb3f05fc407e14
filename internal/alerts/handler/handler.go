package handler

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"curbside/internal/alerts/service"
	"curbside/internal/platform/middleware"
	respond "curbside/internal/transport/http/json"
	"curbside/internal/transport/http/shared"
	dErrors "curbside/pkg/domain-errors"
	"curbside/pkg/validation"
)

// Service defines the core operations the HTTP layer exposes.
type Service interface {
	Signup(ctx context.Context, params service.SignupParams) (*service.SignupResult, error)
	Inbound(ctx context.Context, fromRaw, bodyRaw string) (string, bool)
}

// Handler handles the signup and inbound SMS endpoints.
type Handler struct {
	alerts Service
	logger *slog.Logger
}

// New creates a new alerts Handler.
func New(alerts Service, logger *slog.Logger) *Handler {
	return &Handler{
		alerts: alerts,
		logger: logger,
	}
}

// Register registers the alert routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/signup", h.handleSignup)
	r.Post("/sms/inbound", h.handleInbound)
}

// handleSignup validates the signup submission and hands it to the core.
// Validation failures are reported as the missing_fields outcome so the
// frontend sees one outcome vocabulary.
func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode signup request",
			"request_id", requestID,
			"error", err,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	req.Sanitize()
	if err := validation.Validate(&req); err != nil {
		respond.WriteJSON(w, http.StatusBadRequest, SignupResponse{
			Outcome: string(service.OutcomeMissingFields),
			Error:   validationMessage(err),
		})
		return
	}

	result, err := h.alerts.Signup(ctx, service.SignupParams{
		Phone:            req.Phone,
		HouseNumber:      req.HouseNumber,
		StreetDirection:  req.StreetDirection,
		StreetName:       req.StreetName,
		StreetType:       req.StreetType,
		FullAddress:      req.FullAddress,
		ConsentChecked:   req.ConsentChecked,
		ConsentSourceURL: req.ConsentSourceURL,
	})
	if err != nil {
		h.logger.Error("signup failed",
			"request_id", requestID,
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	switch result.Outcome {
	case service.OutcomeCreated:
		respond.WriteJSON(w, http.StatusOK, SignupResponse{
			Outcome:      string(result.Outcome),
			SubscriberID: result.SubscriberID,
			Message:      "Signup received. We sent you a text - reply YES to confirm, or STOP to opt out.",
		})
	case service.OutcomeAlreadyActive:
		respond.WriteJSON(w, http.StatusOK, SignupResponse{
			Outcome:      string(result.Outcome),
			SubscriberID: result.SubscriberID,
			Message:      "This phone is already receiving pickup reminders.",
		})
	default:
		respond.WriteJSON(w, http.StatusBadRequest, SignupResponse{
			Outcome: string(result.Outcome),
			Error:   result.Reason,
		})
	}
}

// twimlResponse is the carrier webhook reply envelope. An empty Message field
// renders as <Response></Response>, which means "no reply".
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message,omitempty"`
}

// handleInbound accepts the carrier's form-encoded webhook and answers with
// TwiML. Always 200: the carrier retries non-2xx, and there is nothing to
// retry here.
func (h *Handler) handleInbound(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		h.logger.Warn("failed to parse inbound form", "error", err)
		h.writeTwiML(w, "")
		return
	}

	from := r.PostFormValue("From")
	body := r.PostFormValue("Body")

	reply, ok := h.alerts.Inbound(ctx, from, body)
	if !ok {
		h.writeTwiML(w, "")
		return
	}
	h.writeTwiML(w, reply)
}

func (h *Handler) writeTwiML(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	out, err := xml.Marshal(twimlResponse{Message: text})
	if err != nil {
		h.logger.Error("failed to marshal twiml response", "error", err)
		_, _ = w.Write([]byte("<Response></Response>"))
		return
	}
	_, _ = w.Write(out)
}

// validationMessage unwraps the domain validation error's message for the
// outcome envelope.
func validationMessage(err error) string {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) && domainErr.Message != "" {
		return domainErr.Message
	}
	return "invalid request body"
}
