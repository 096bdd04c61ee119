package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/microblog/go-server/internal/auth"
	"github.com/microblog/go-server/internal/store"
)

type createPostReq struct {
	Content string `json:"content"`
}

func (r createPostReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required, validation.Length(1, 1000)),
	)
}

func (s *Server) mountPostRoutes() {
	s.r.Route("/posts", func(r chi.Router) {
		r.Get("/", s.handleListPosts)
		r.Post("/", s.handleCreatePost)
		r.Get("/{id}", s.handleGetPost)
		r.Delete("/{id}", s.handleDeletePost)
		r.Post("/{id}/like", s.handleLikePost)
		r.Delete("/{id}/like", s.handleUnlikePost)
	})
}

// handleListPosts is public. A connected caller additionally sees which
// posts they liked; anonymous viewers get isLiked=false everywhere.
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	ident := auth.FromContext(r.Context())
	limit, offset := pagination(r)
	posts, err := s.store.ListPosts(r.Context(), ident.UserID, limit, offset)
	if err != nil {
		storeError(w, err, "list posts")
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	ident := auth.FromContext(r.Context())
	p, err := s.store.GetPost(r.Context(), id, ident.UserID)
	if err != nil {
		storeError(w, err, "get post")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleCreatePost takes the owner from the resolved identity, never from
// the body.
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	ident, ok := s.authorize(w, r, auth.Authenticated)
	if !ok {
		return
	}
	var body createPostReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if err := body.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := s.store.CreatePost(r.Context(), ident.UserID, body.Content)
	if err != nil {
		storeError(w, err, "create post")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// handleDeletePost checks authentication first, then existence, then
// ownership, matching the like/unlike ordering. For non-admin callers the
// ownership check and the delete share one transaction.
func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	ident, ok := s.authorize(w, r, auth.Authenticated)
	if !ok {
		return
	}
	if ident.IsAdmin {
		err = s.store.DeletePost(r.Context(), id)
	} else {
		err = s.store.DeletePostOwnedBy(r.Context(), id, ident.UserID)
	}
	if errors.Is(err, store.ErrNotOwner) {
		unauthorized(w)
		return
	}
	if err != nil {
		storeError(w, err, "delete post")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLikePost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	ident, ok := s.authorize(w, r, auth.Authenticated)
	if !ok {
		return
	}
	if err := s.store.LikePost(r.Context(), ident.UserID, id); err != nil {
		storeError(w, err, "like post")
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleUnlikePost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	ident, ok := s.authorize(w, r, auth.Authenticated)
	if !ok {
		return
	}
	if err := s.store.UnlikePost(r.Context(), ident.UserID, id); err != nil {
		storeError(w, err, "unlike post")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
