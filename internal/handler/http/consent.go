package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/consentvault/consent-keeper/internal/logger"
	"github.com/consentvault/consent-keeper/internal/utils"
	"github.com/consentvault/consent-keeper/models"
)

// submitConsent stores an encrypted submission, assembles its evidence bundle
// and mints the download grant, all in one request. Submission storage is the
// only step that can leave partial state behind; when a later step fails the
// stored submission is deleted again so retries start clean.
func (h *Handler) submitConsent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var consentRequest models.ConsentRequest
	if err := json.NewDecoder(r.Body).Decode(&consentRequest); err != nil {
		log.Err(err).Str("func", "*Handler.submitConsent").Msg("Invalid JSON was passed")
		writeError(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	submission, err := h.services.SubmissionService.Store(ctx, &consentRequest)
	if err != nil {
		log.Err(err).Str("func", "*Handler.submitConsent").Msg("error storing consent submission")
		writeError(w, "error storing consent submission", statusFromError(err))
		return
	}

	bundle, err := h.services.EvidenceService.Assemble(ctx, submission, consentRequest.DeviceFingerprint, consentRequest.OTPVerification)
	if err != nil {
		log.Err(err).Str("func", "*Handler.submitConsent").Msg("error assembling evidence bundle")
		h.discardSubmission(ctx, submission.ID)
		writeError(w, "error assembling evidence bundle", statusFromError(err))
		return
	}

	token, grant, err := h.services.TokenService.Issue(ctx, submission.ID, requestContext(r))
	if err != nil {
		log.Err(err).Str("func", "*Handler.submitConsent").Msg("error issuing download grant")
		h.discardSubmission(ctx, submission.ID)
		writeError(w, "error issuing download grant", statusFromError(err))
		return
	}

	response := models.ConsentResponse{
		SubmissionID:  submission.ID,
		ExpiresAt:     submission.Retention.ExpiresAt,
		DownloadToken: token.SignedString,
		TokenExpires:  grant.ExpiresAt,
		Anchor:        bundle.Anchor,
		Timestamp:     bundle.Timestamp,
		NoticeVersion: bundle.Notice.Version,
	}

	utils.WriteJSON(w, response, http.StatusCreated)
}

// discardSubmission rolls back a stored submission after a later intake step
// failed. Best effort, the retention sweeper collects leftovers eventually.
func (h *Handler) discardSubmission(ctx context.Context, submissionID string) {
	if err := h.services.SubmissionService.Delete(ctx, submissionID); err != nil {
		h.logger.Warn().
			Err(err).
			Str("func", "*Handler.discardSubmission").
			Str("submission_id", submissionID).
			Msg("rollback of stored submission failed")
	}
}

// downloadConsent redeems a grant token from the "token" query parameter and
// streams the decrypted artifact.
func (h *Handler) downloadConsent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		writeError(w, "missing token query parameter", http.StatusBadRequest)
		return
	}

	grant, err := h.services.TokenService.Redeem(ctx, tokenString, requestContext(r))
	if err != nil {
		log.Err(err).Str("func", "*Handler.downloadConsent").Msg("error redeeming download grant")
		writeError(w, "error redeeming download grant", statusFromError(err))
		return
	}

	decrypted, err := h.services.SubmissionService.Retrieve(ctx, grant.SubmissionID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.downloadConsent").Msg("error retrieving submission")
		writeError(w, "error retrieving submission", statusFromError(err))
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "consent-"+grant.SubmissionID+".bin"))
	w.Header().Set("Content-Length", strconv.Itoa(len(decrypted.Artifact)))
	w.Header().Set("X-Content-Hash", decrypted.Meta.ContentHash)
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(decrypted.Artifact); err != nil {
		log.Err(err).Str("func", "*Handler.downloadConsent").Msg("error streaming artifact")
	}
}

// requestContext extracts the advisory client context used for grant binding.
func requestContext(r *http.Request) models.RequestContext {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}

	return models.RequestContext{
		IP:        ip,
		UserAgent: r.UserAgent(),
	}
}

func writeError(w http.ResponseWriter, message string, statusCode int) {
	utils.WriteJSON(w, models.ErrorResponse{Error: message}, statusCode)
}
