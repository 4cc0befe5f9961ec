package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"agoradb/pkg/auth"
	"agoradb/pkg/forum"
	"agoradb/pkg/logger"
	"agoradb/pkg/models"
	"agoradb/pkg/utils"
)

// svc is the process-wide forum service, set once during route
// registration.
var svc *forum.Service

// Register wires every API route onto the router. Mutating routes are
// wrapped so the caller identity is signature-verified first.
func Register(r *mux.Router, s *forum.Service) {
	svc = s
	RegisterAdmin(r)
	RegisterThreads(r)
	RegisterPeople(r)
	RegisterFriends(r)
}

// signed wraps a handler with caller signature verification.
func signed(h http.HandlerFunc) http.Handler {
	return auth.RequireSignedAccount(h)
}

// attachedDeposit reads the X-Attached-Deposit header. Absent means a
// zero deposit; the fee gate decides whether that is enough.
func attachedDeposit(r *http.Request) (models.Amount, error) {
	raw := strings.TrimSpace(r.Header.Get("X-Attached-Deposit"))
	return models.ParseAmount(raw)
}

// writeForumError maps service errors onto HTTP statuses.
func writeForumError(w http.ResponseWriter, r *http.Request, err error) {
	var feeErr *forum.InsufficientFeeError
	switch {
	case errors.As(err, &feeErr):
		utils.JSONError(w, http.StatusPaymentRequired, feeErr.Error())
	case errors.Is(err, forum.ErrUnauthorized):
		utils.JSONError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, forum.ErrNotFound), errors.Is(err, forum.ErrNoReaction):
		utils.JSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, forum.ErrAlreadyExists):
		utils.JSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, forum.ErrInvalid):
		utils.JSONError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("handler_error", zap.String("path", r.URL.Path), zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "internal error")
	}
}
