package httpserver

import (
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/microblog/go-server/internal/auth"
	"github.com/microblog/go-server/internal/store"
)

var usernameRx = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

type createUserReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Title    string `json:"title"`
	IsAdmin  bool   `json:"isAdmin"`
}

func (r createUserReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 24), validation.Match(usernameRx)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&r.Title, validation.Length(0, 100)),
	)
}

type updateUserReq struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Title    *string `json:"title"`
	IsAdmin  *bool   `json:"isAdmin"`
}

func (r updateUserReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Length(3, 24), validation.Match(usernameRx)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Password, validation.Length(8, 100)),
		validation.Field(&r.Title, validation.Length(0, 100)),
	)
}

func (s *Server) mountUserRoutes() {
	s.r.Route("/users", func(r chi.Router) {
		r.Get("/", s.handleListUsers)
		r.Post("/", s.handleCreateUser)
		r.Get("/{id}", s.handleGetUser)
		r.Put("/{id}", s.handleUpdateUser)
		r.Delete("/{id}", s.handleDeleteUser)
	})
}

// handleListUsers is public; hashes never serialize (json:"-").
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	users, err := s.store.ListUsers(r.Context(), limit, offset)
	if err != nil {
		storeError(w, err, "list users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	u, err := s.store.GetUser(r.Context(), id)
	if err != nil {
		storeError(w, err, "get user")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// handleCreateUser is public signup, except that asking for the admin flag
// requires an already-admin caller.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var body createUserReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if err := body.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ident := auth.FromContext(r.Context())
	if !auth.CanGrantAdmin(ident, body.IsAdmin) {
		unauthorized(w)
		return
	}

	hash, err := auth.HashPassword(body.Password)
	if err != nil {
		storeError(w, err, "hash password")
		return
	}
	u, err := s.store.CreateUser(r.Context(), store.NewUser{
		Username:     body.Username,
		Email:        body.Email,
		PasswordHash: hash,
		Title:        body.Title,
		IsAdmin:      body.IsAdmin,
	})
	if err != nil {
		storeError(w, err, "create user")
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// handleUpdateUser requires the caller to own the account or be admin; the
// admin flag additionally needs an admin caller.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	ident, ok := s.authorize(w, r, auth.SelfOrAdmin(id))
	if !ok {
		return
	}

	var body updateUserReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if err := body.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if body.IsAdmin != nil && !auth.CanGrantAdmin(ident, *body.IsAdmin) {
		unauthorized(w)
		return
	}

	upd := store.UserUpdate{
		Username: body.Username,
		Email:    body.Email,
		Title:    body.Title,
		IsAdmin:  body.IsAdmin,
	}
	if body.Password != nil {
		hash, err := auth.HashPassword(*body.Password)
		if err != nil {
			storeError(w, err, "hash password")
			return
		}
		upd.PasswordHash = &hash
	}

	u, err := s.store.UpdateUser(r.Context(), id, upd)
	if err != nil {
		storeError(w, err, "update user")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	if _, ok := s.authorize(w, r, auth.SelfOrAdmin(id)); !ok {
		return
	}
	if err := s.store.DeleteUser(r.Context(), id); err != nil {
		storeError(w, err, "delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
