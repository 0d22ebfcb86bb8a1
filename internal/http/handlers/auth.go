package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storage"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storefront"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/validation"
)

type AuthAPI interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, error)
}

type AuthHandler struct {
	auth   AuthAPI
	spaces *storefront.Registry
	// stored is set when the session is kept server-side
	stored storage.Store
	logger zerolog.Logger
}

func NewAuthHandler(auth AuthAPI, spaces *storefront.Registry, stored storage.Store, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, spaces: spaces, stored: stored, logger: logger}
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validation.Struct(req); err != nil {
		writeFailure(w, r, err)
		return
	}
	resp, err := h.auth.Login(r.Context(), req)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	if h.stored != nil {
		s := session.Session{Token: resp.Token, UserID: resp.User.ID, Role: resp.User.Role}
		if err := session.Save(r.Context(), h.stored, s); err != nil {
			h.logger.Warn().Err(err).Str("userId", resp.User.ID).Msg("persist session failed")
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type signUpForm struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
	Role            string `json:"role"`
}

// SignUp registers the account and sends the caller to sign in.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var form signUpForm
	if !decodeJSON(w, r, &form) {
		return
	}
	req := model.RegisterRequest{
		Name:     strings.TrimSpace(form.Name),
		Email:    strings.TrimSpace(form.Email),
		Password: form.Password,
		Role:     strings.ToLower(strings.TrimSpace(form.Role)),
	}
	if req.Role == "" {
		req.Role = "client"
	}
	if err := joinFields(validation.Struct(req), validation.Struct(form)); err != nil {
		writeFailure(w, r, err)
		return
	}
	if _, err := h.auth.Register(r.Context(), req); err != nil {
		writeFailure(w, r, err)
		return
	}
	redirectTo(w, r, "/signin")
}

// SignOut drops the caller's in-memory workspace. The cart mirror and
// address draft stay in storage for the next sign-in.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.spaces.Evict(session.FromContext(r.Context()).UserID)
	if h.stored != nil {
		if err := session.Clear(r.Context(), h.stored); err != nil {
			writeFailure(w, r, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// joinFields merges field errors from several checks into one. Any other
// error is returned as is.
func joinFields(errs ...error) error {
	var merged *validation.Error
	for _, err := range errs {
		if err == nil {
			continue
		}
		verr, ok := err.(*validation.Error)
		if !ok {
			return err
		}
		if merged == nil {
			merged = &validation.Error{Fields: map[string]string{}}
		}
		for k, v := range verr.Fields {
			merged.Fields[k] = v
		}
	}
	if merged == nil {
		return nil
	}
	return merged
}
