package http

import (
	"net/http"
	"strconv"

	"github.com/consentvault/consent-keeper/internal/logger"
	"github.com/consentvault/consent-keeper/internal/utils"
)

// verifyChain recomputes the evidence hash chain, optionally starting from
// the index given in the "from" query parameter.
func (h *Handler) verifyChain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var fromIndex int64
	if from := r.URL.Query().Get("from"); from != "" {
		parsed, err := strconv.ParseInt(from, 10, 64)
		if err != nil || parsed < 0 {
			writeError(w, "invalid from query parameter", http.StatusBadRequest)
			return
		}
		fromIndex = parsed
	}

	result, err := h.services.EvidenceService.VerifyChain(ctx, fromIndex)
	if err != nil {
		log.Err(err).Str("func", "*Handler.verifyChain").Msg("error verifying evidence chain")
		writeError(w, "error verifying evidence chain", statusFromError(err))
		return
	}

	utils.WriteJSON(w, result, http.StatusOK)
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	utils.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
