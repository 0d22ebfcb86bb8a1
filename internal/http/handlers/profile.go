package handlers

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/media"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/validation"
)

type ProfileAPI interface {
	Me(ctx context.Context) (*model.User, error)
	UpdateMe(ctx context.Context, req model.UserUpdateRequest) (*model.User, error)
}

type AnalyticsAPI interface {
	ClientAnalytics(ctx context.Context, userID string) (*model.Analytics, error)
	SellerAnalytics(ctx context.Context, userID string) (*model.Analytics, error)
}

type ProfileHandler struct {
	users     ProfileAPI
	analytics AnalyticsAPI
	uploader  *media.Uploader
	logger    zerolog.Logger
}

func NewProfileHandler(users ProfileAPI, analytics AnalyticsAPI, uploader *media.Uploader, logger zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{users: users, analytics: analytics, uploader: uploader, logger: logger}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Me(r.Context())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// profileForm is the edit form as submitted. The confirmation never leaves
// the storefront.
type profileForm struct {
	Name            string `json:"name,omitempty" validate:"omitempty,notblank"`
	Password        string `json:"password,omitempty" validate:"omitempty,password"`
	ConfirmPassword string `json:"confirmPassword,omitempty" validate:"required_with=Password,eqfield=Password"`
	AvatarURL       string `json:"avatar,omitempty"`
}

// Update checks the form locally and only then forwards it.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var form profileForm
	if !decodeJSON(w, r, &form) {
		return
	}
	if err := validation.Struct(form); err != nil {
		writeFailure(w, r, err)
		return
	}
	u, err := h.users.UpdateMe(r.Context(), model.UserUpdateRequest{
		Name:      form.Name,
		Password:  form.Password,
		AvatarURL: form.AvatarURL,
	})
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// UploadAvatar stores the "file" form part and points the profile at it.
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	name, data, ok := readUpload(w, r)
	if !ok {
		return
	}
	s := session.FromContext(r.Context())
	m, err := h.uploader.Upload(r.Context(), media.Avatar, s.UserID, name, data)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	u, err := h.users.UpdateMe(r.Context(), model.UserUpdateRequest{AvatarURL: m.URL})
	if err != nil {
		h.logger.Warn().Err(err).Str("media_id", m.ID).Msg("avatar uploaded but profile not updated")
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// Analytics returns purchase totals for clients and sales totals for sellers.
func (h *ProfileHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	var (
		a   *model.Analytics
		err error
	)
	if s.IsSeller() {
		a, err = h.analytics.SellerAnalytics(r.Context(), s.UserID)
	} else {
		a, err = h.analytics.ClientAnalytics(r.Context(), s.UserID)
	}
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// readUpload pulls the "file" part out of a multipart request, capped at the
// image size limit.
func readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, media.MaxImageSize+maxJSONBody)
	f, hdr, err := r.FormFile("file")
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "multipart field \"file\" is required")
		return "", nil, false
	}
	defer f.Close()

	data, err := media.ReadLimited(f)
	if err != nil {
		writeFailure(w, r, err)
		return "", nil, false
	}
	return hdr.Filename, data, true
}
