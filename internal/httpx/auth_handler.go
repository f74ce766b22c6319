package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jlsoftware/marketplace/internal/market"
	"github.com/jlsoftware/marketplace/internal/session"
)

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResp struct {
	SessionID string      `json:"session_id"`
	User      market.User `json:"user"`
}

func (a *App) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email required")
		return
	}
	user, sid, err := a.Sessions.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, session.ErrUnknownEmail) {
		writeError(w, http.StatusUnauthorized, "unknown email")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, authResp{SessionID: sid, User: user})
}

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

func (a *App) register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Email == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "email and name required")
		return
	}
	user, sid, err := a.Sessions.Register(r.Context(), req.Email, req.Password, req.Name, market.Role(req.Role))
	switch {
	case errors.Is(err, session.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email already registered")
		return
	case errors.Is(err, session.ErrBadRole):
		writeError(w, http.StatusBadRequest, "role must be customer, vendor or admin")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, authResp{SessionID: sid, User: user})
}

func (a *App) logout(w http.ResponseWriter, r *http.Request) {
	sid := r.Header.Get(HeaderSession)
	if sid == "" {
		writeError(w, http.StatusBadRequest, "missing "+HeaderSession+" header")
		return
	}
	if err := a.Sessions.Logout(r.Context(), sid); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) me(w http.ResponseWriter, r *http.Request) {
	user, err := a.Sessions.Current(r.Context(), r.Header.Get(HeaderSession))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
