package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/consentvault/consent-keeper/internal/logger"
	"github.com/consentvault/consent-keeper/internal/service"
	"github.com/consentvault/consent-keeper/internal/utils"
	"github.com/consentvault/consent-keeper/models"
)

func (h *Handler) requestOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var otpRequest models.OTPRequest
	if err := json.NewDecoder(r.Body).Decode(&otpRequest); err != nil {
		log.Err(err).Str("func", "*Handler.requestOTP").Msg("Invalid JSON was passed")
		writeError(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	challenge, err := h.services.OTPService.Request(ctx, otpRequest.Recipient)
	if err != nil {
		log.Err(err).Str("func", "*Handler.requestOTP").Msg("error issuing verification challenge")
		writeError(w, "error issuing verification challenge", statusFromError(err))
		return
	}

	response := models.OTPRequestResponse{
		ChallengeID: challenge.ID,
		ExpiresAt:   challenge.ExpiresAt,
	}

	utils.WriteJSON(w, response, http.StatusCreated)
}

func (h *Handler) verifyOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var verifyRequest models.OTPVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&verifyRequest); err != nil {
		log.Err(err).Str("func", "*Handler.verifyOTP").Msg("Invalid JSON was passed")
		writeError(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	record, attemptsLeft, err := h.services.OTPService.Verify(ctx, verifyRequest.Recipient, verifyRequest.Code)
	if err != nil {
		// failed attempts are an expected outcome, answered with a structured
		// body so the caller can distinguish retryable from terminal failures
		log.Warn().Err(err).Str("func", "*Handler.verifyOTP").Msg("verification failed")

		response := models.OTPVerifyResponse{
			Verified:     false,
			Reason:       verifyFailureReason(err),
			AttemptsLeft: attemptsLeft,
		}
		utils.WriteJSON(w, response, statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.OTPVerifyResponse{Verified: true, Record: record}, http.StatusOK)
}

func verifyFailureReason(err error) string {
	switch {
	case errors.Is(err, service.ErrCodeMismatch):
		return "code_mismatch"
	case errors.Is(err, service.ErrAttemptsExceeded):
		return "attempts_exceeded"
	case errors.Is(err, service.ErrExpired):
		return "expired"
	case errors.Is(err, service.ErrNotFound):
		return "no_active_challenge"
	default:
		return "verification_failed"
	}
}
