package handlers

import (
	"encoding/json"
	"net/http"

	"agoradb/pkg/auth"
	"agoradb/pkg/models"
	"agoradb/pkg/utils"

	"github.com/gorilla/mux"
)

// RegisterThreads registers all thread-related HTTP routes to the provided router.
func RegisterThreads(r *mux.Router) {
	r.Handle("/threads", signed(createThread)).Methods(http.MethodPost)
	r.HandleFunc("/threads", listThreads).Methods(http.MethodGet)

	r.HandleFunc("/threads/{name}", getThread).Methods(http.MethodGet)
	r.Handle("/threads/{name}", signed(deleteThread)).Methods(http.MethodDelete)

	r.Handle("/threads/{name}/posts", signed(createPost)).Methods(http.MethodPost)
	r.Handle("/threads/{name}/posts/{id}", signed(deletePost)).Methods(http.MethodDelete)

	r.Handle("/threads/{name}/posts/{id}/reactions", signed(putReaction)).Methods(http.MethodPut)
	r.Handle("/threads/{name}/posts/{id}/reactions", signed(deleteReaction)).Methods(http.MethodDelete)
}

// createThread handles POST /threads. The thread name comes from the
// body and doubles as its identifier; creation is fee-gated.
func createThread(w http.ResponseWriter, r *http.Request) {
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
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	name, err := svc.CreateThread(caller, deposit, body.Name)
	if err != nil {
		writeForumError(w, r, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusCreated, map[string]string{"name": name})
}

// listThreads handles GET /threads. Most recently created threads come
// first; `from` and `limit` select the window.
func listThreads(w http.ResponseWriter, r *http.Request) {
	from, limit, err := utils.ParseWindow(r)
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Threads []models.ThreadMeta `json:"threads"`
	}{Threads: svc.GetThreads(from, limit)})
}

// getThread handles GET /threads/{name}, listing a window of the
// thread's posts newest first.
func getThread(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	from, limit, err := utils.ParseWindow(r)
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	posts, err := svc.GetThread(name, from, limit)
	if err != nil {
		writeForumError(w, r, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Thread string            `json:"thread"`
		Posts  []models.PostView `json:"posts"`
	}{Thread: name, Posts: posts})
}

// deleteThread handles DELETE /threads/{name}. Operator only.
func deleteThread(w http.ResponseWriter, r *http.Request) {
	caller, status, msg := auth.ResolveCaller(r)
	if status != 0 {
		utils.JSONError(w, status, msg)
		return
	}
	name := mux.Vars(r)["name"]
	if err := svc.DeleteThread(caller, name); err != nil {
		writeForumError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// createPost handles POST /threads/{name}/posts. Fee-gated.
func createPost(w http.ResponseWriter, r *http.Request) {
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
		Text      string  `json:"text"`
		ContentID *string `json:"cid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	name := mux.Vars(r)["name"]
	post, err := svc.AddPost(caller, deposit, name, body.Text, body.ContentID)
	if err != nil {
		writeForumError(w, r, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusCreated, post)
}

// deletePost handles DELETE /threads/{name}/posts/{id}. Operator only.
func deletePost(w http.ResponseWriter, r *http.Request) {
	caller, status, msg := auth.ResolveCaller(r)
	if status != 0 {
		utils.JSONError(w, status, msg)
		return
	}
	vars := mux.Vars(r)
	if err := svc.DeletePost(caller, vars["name"], vars["id"]); err != nil {
		writeForumError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// putReaction handles PUT .../reactions, setting the caller's single
// reaction slot on the post.
func putReaction(w http.ResponseWriter, r *http.Request) {
	caller, status, msg := auth.ResolveCaller(r)
	if status != 0 {
		utils.JSONError(w, status, msg)
		return
	}
	var body struct {
		Reaction models.Reaction `json:"reaction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	vars := mux.Vars(r)
	if err := svc.React(caller, vars["name"], vars["id"], body.Reaction); err != nil {
		writeForumError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// deleteReaction handles DELETE .../reactions, clearing the caller's slot.
func deleteReaction(w http.ResponseWriter, r *http.Request) {
	caller, status, msg := auth.ResolveCaller(r)
	if status != 0 {
		utils.JSONError(w, status, msg)
		return
	}
	vars := mux.Vars(r)
	if err := svc.Unreact(caller, vars["name"], vars["id"]); err != nil {
		writeForumError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
