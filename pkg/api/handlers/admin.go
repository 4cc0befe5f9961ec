package handlers

import (
	"encoding/json"
	"net/http"

	"agoradb/pkg/auth"
	"agoradb/pkg/models"
	"agoradb/pkg/utils"

	"github.com/gorilla/mux"
)

// RegisterAdmin registers the fee schedule routes.
func RegisterAdmin(r *mux.Router) {
	r.HandleFunc("/fees", getFees).Methods(http.MethodGet)
	r.Handle("/fees", signed(setFees)).Methods(http.MethodPut)
}

// getFees handles GET /fees. Amounts are decimal strings.
func getFees(w http.ResponseWriter, r *http.Request) {
	_ = utils.JSONWrite(w, http.StatusOK, svc.GetFees())
}

// setFees handles PUT /fees. The body replaces the whole schedule and
// only the operator account may call it.
func setFees(w http.ResponseWriter, r *http.Request) {
	caller, status, msg := auth.ResolveCaller(r)
	if status != 0 {
		utils.JSONError(w, status, msg)
		return
	}
	var fees models.Fees
	if err := json.NewDecoder(r.Body).Decode(&fees); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := svc.SetFees(caller, fees); err != nil {
		writeForumError(w, r, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, svc.GetFees())
}
