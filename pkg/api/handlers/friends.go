package handlers

import (
	"encoding/json"
	"net/http"

	"agoradb/pkg/auth"
	"agoradb/pkg/models"
	"agoradb/pkg/utils"

	"github.com/gorilla/mux"
)

// RegisterFriends registers the friend request and friendship routes.
func RegisterFriends(r *mux.Router) {
	r.Handle("/friend-requests", signed(sendFriendRequest)).Methods(http.MethodPost)
	r.Handle("/friend-requests/{from}/accept", signed(acceptFriendRequest)).Methods(http.MethodPost)
	r.Handle("/friend-requests/{from}/reject", signed(rejectFriendRequest)).Methods(http.MethodPost)
	r.Handle("/friends/{account}/unfriend", signed(unfriend)).Methods(http.MethodPost)
	r.HandleFunc("/people/{account}/friend-requests", listFriendRequests).Methods(http.MethodGet)
}

// sendFriendRequest handles POST /friend-requests. Fee-gated; the
// target person must already have a profile.
func sendFriendRequest(w http.ResponseWriter, r *http.Request) {
	caller, status, msg := auth.ResolveCaller(r)
	if status != 0 {
		utils.JSONError(w, status, msg)
		return
	}
	deposit, err := attachedDeposit(r)
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid deposit")
		return
	}
	var body struct {
		To      string  `json:"to"`
		Message *string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := svc.SendFriendRequest(caller, deposit, body.To, body.Message); err != nil {
		writeForumError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// acceptFriendRequest handles POST /friend-requests/{from}/accept.
// Fee-gated for the accepting side as well.
func acceptFriendRequest(w http.ResponseWriter, r *http.Request) {
	caller, status, msg := auth.ResolveCaller(r)
	if status != 0 {
		utils.JSONError(w, status, msg)
		return
	}
	deposit, err := attachedDeposit(r)
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid deposit")
		return
	}
	from := mux.Vars(r)["from"]
	if err := svc.AcceptFriendRequest(caller, deposit, from); err != nil {
		writeForumError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// rejectFriendRequest handles POST /friend-requests/{from}/reject.
func rejectFriendRequest(w http.ResponseWriter, r *http.Request) {
	caller, status, msg := auth.ResolveCaller(r)
	if status != 0 {
		utils.JSONError(w, status, msg)
		return
	}
	from := mux.Vars(r)["from"]
	if err := svc.RejectFriendRequest(caller, from); err != nil {
		writeForumError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// unfriend handles POST /friends/{account}/unfriend, removing both
// sides of the friendship.
func unfriend(w http.ResponseWriter, r *http.Request) {
	caller, status, msg := auth.ResolveCaller(r)
	if status != 0 {
		utils.JSONError(w, status, msg)
		return
	}
	other := mux.Vars(r)["account"]
	if err := svc.Unfriend(caller, other); err != nil {
		writeForumError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listFriendRequests handles GET /people/{account}/friend-requests,
// oldest first.
func listFriendRequests(w http.ResponseWriter, r *http.Request) {
	account := mux.Vars(r)["account"]
	from, limit, err := utils.ParseWindow(r)
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	reqs, err := svc.GetFriendRequests(account, from, limit)
	if err != nil {
		writeForumError(w, r, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Requests []models.FriendRequestView `json:"friend_requests"`
	}{Requests: reqs})
}
