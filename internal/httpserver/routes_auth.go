package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/microblog/go-server/internal/auth"
	"github.com/microblog/go-server/internal/store"
)

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r loginReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type tokenRes struct {
	Token string `json:"token"`
}

func (s *Server) mountAuthRoutes() {
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Get("/auth/me", s.handleMe)
}

// handleLogin verifies credentials and issues a token. Unknown username
// and wrong password get the same answer.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if err := body.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := s.store.GetUserByUsername(r.Context(), body.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			unauthorized(w)
			return
		}
		storeError(w, err, "login lookup")
		return
	}
	if !auth.CheckPassword(u.PasswordHash, body.Password) {
		unauthorized(w)
		return
	}

	tok, err := s.codec.Issue(u.ID, u.Username, u.IsAdmin)
	if err != nil {
		storeError(w, err, "sign token")
		return
	}
	writeJSON(w, http.StatusOK, tokenRes{Token: tok})
}

// handleMe returns the resolved identity. Gated: anonymous callers get 401.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	ident, ok := s.authorize(w, r, auth.Authenticated)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":       ident.UserID,
		"username": ident.Username,
		"isAdmin":  ident.IsAdmin,
	})
}
