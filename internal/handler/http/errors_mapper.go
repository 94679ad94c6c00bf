package http

import (
	"errors"
	"net/http"

	"github.com/consentvault/consent-keeper/internal/service"
	"github.com/consentvault/consent-keeper/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrValidation:          http.StatusBadRequest,
	service.ErrNotFound:            http.StatusNotFound,
	service.ErrExpired:             http.StatusGone,
	service.ErrGrantExhausted:      http.StatusGone,
	service.ErrCodeMismatch:        http.StatusUnauthorized,
	service.ErrAttemptsExceeded:    http.StatusTooManyRequests,
	service.ErrIntegrity:           http.StatusConflict,
	service.ErrUpstreamUnavailable: http.StatusBadGateway,

	store.ErrSubmissionExists: http.StatusConflict,
	store.ErrBundleExists:     http.StatusConflict,

	store.ErrBuildingSQLQuery: http.StatusInternalServerError,
	store.ErrExecutingQuery:   http.StatusInternalServerError,
	store.ErrScanningRow:      http.StatusInternalServerError,
	store.ErrScanningRows:     http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
