package handlers

import (
	"encoding/json"
	"net/http"

	"agoradb/pkg/auth"
	"agoradb/pkg/models"
	"agoradb/pkg/utils"

	"github.com/gorilla/mux"
)

// RegisterPeople registers the person profile routes.
func RegisterPeople(r *mux.Router) {
	r.Handle("/people", signed(putPerson)).Methods(http.MethodPut)
	r.HandleFunc("/people", listPeople).Methods(http.MethodGet)
	r.HandleFunc("/people/{account}", getPerson).Methods(http.MethodGet)
}

// putPerson handles PUT /people. The caller's own profile is created on
// first write and updated in place afterwards; no fee applies.
func putPerson(w http.ResponseWriter, r *http.Request) {
	caller, status, msg := auth.ResolveCaller(r)
	if status != 0 {
		utils.JSONError(w, status, msg)
		return
	}
	var body struct {
		Text      *string `json:"text"`
		ContentID *string `json:"cid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	v, err := svc.PutPerson(caller, body.Text, body.ContentID)
	if err != nil {
		writeForumError(w, r, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, v)
}

// listPeople handles GET /people, newest profiles first.
func listPeople(w http.ResponseWriter, r *http.Request) {
	from, limit, err := utils.ParseWindow(r)
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		People []models.PersonView `json:"people"`
	}{People: svc.GetPeople(from, limit)})
}

// getPerson handles GET /people/{account}.
func getPerson(w http.ResponseWriter, r *http.Request) {
	account := mux.Vars(r)["account"]
	v := svc.GetPerson(account)
	if v == nil {
		utils.JSONError(w, http.StatusNotFound, "person not found")
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, v)
}
