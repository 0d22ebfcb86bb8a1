// Package media checks images before they are sent to the media service.
package media

import (
	"context"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

// MaxImageSize is the upload limit for every image kind.
const MaxImageSize = 2 << 20

type Kind string

const (
	ProductImage Kind = "product"
	Avatar       Kind = "avatar"
)

var (
	ErrTooLarge        = errors.New("image exceeds 2MB")
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrEmpty           = errors.New("image is empty")
)

var allowed = map[Kind][]string{
	ProductImage: {"image/jpeg", "image/png"},
	Avatar:       {"image/jpeg", "image/png", "image/gif", "image/webp"},
}

func ownerType(k Kind) string {
	if k == Avatar {
		return clients.OwnerUser
	}
	return clients.OwnerProduct
}

// Validate sniffs the content type from data and checks it and the size
// against kind's rules. The file name plays no part.
func Validate(kind Kind, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmpty
	}
	if len(data) > MaxImageSize {
		return "", ErrTooLarge
	}
	ct := http.DetectContentType(data)
	for _, a := range allowed[kind] {
		if ct == a {
			return ct, nil
		}
	}
	return "", errors.Wrapf(ErrUnsupportedType, "%s for %s", ct, kind)
}

// ReadLimited reads an upload, failing with ErrTooLarge past MaxImageSize
// without buffering the rest.
func ReadLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "read image")
	}
	if len(data) > MaxImageSize {
		return nil, ErrTooLarge
	}
	return data, nil
}

type API interface {
	UploadImage(ctx context.Context, ownerID, ownerType, filename, contentType string, data []byte) (*model.Media, error)
	DeleteImage(ctx context.Context, mediaID string) error
}

type Uploader struct {
	api API
}

func NewUploader(api API) *Uploader { return &Uploader{api: api} }

// Upload validates data and sends it. Invalid files never reach the network.
func (u *Uploader) Upload(ctx context.Context, kind Kind, ownerID, filename string, data []byte) (*model.Media, error) {
	ct, err := Validate(kind, data)
	if err != nil {
		return nil, err
	}
	m, err := u.api.UploadImage(ctx, ownerID, ownerType(kind), filename, ct, data)
	if err != nil {
		return nil, errors.Wrap(err, "upload image")
	}
	return m, nil
}

func (u *Uploader) Delete(ctx context.Context, mediaID string) error {
	return errors.Wrap(u.api.DeleteImage(ctx, mediaID), "delete image")
}
