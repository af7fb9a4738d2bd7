package http

import (
	"encoding/json"
	"net/http"

	"pocketarchive/internal/entity"
	"pocketarchive/internal/httpx"
	"pocketarchive/internal/session"
)

type SessionHandler struct {
	gate *session.Gate
}

func NewSessionHandler(gate *session.Gate) *SessionHandler {
	return &SessionHandler{gate: gate}
}

type sessionView struct {
	State string       `json:"state"`
	User  *entity.User `json:"user,omitempty"`
}

// Handle serves /session: GET shows the current session, POST logs in with
// a role, DELETE logs out.
func (h *SessionHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		httpx.JSONSuccess(w, sessionView{State: h.gate.State(), User: h.gate.Current()})
	case http.MethodPost:
		h.login(w, r)
	case http.MethodDelete:
		if err := h.gate.Logout(); err != nil {
			writeDomainError(w, err)
			return
		}
		httpx.JSONNoContent(w)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *SessionHandler) login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Role  entity.Role `json:"role"`
		Name  string      `json:"name"`
		Email string      `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return
	}

	user, err := h.gate.Login(r.Context(), payload.Role, payload.Name, payload.Email)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpx.JSONCreated(w, sessionView{State: h.gate.State(), User: &user})
}
