package clients

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"

	"github.com/pkg/errors"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

// Owner types understood by the media service.
const (
	OwnerProduct = "PRODUCT"
	OwnerUser    = "USER"
)

type MediaClient struct{ c *Client }

func NewMediaClient(c *Client) *MediaClient { return &MediaClient{c: c} }

// UploadImage posts one image as multipart/form-data. Callers validate size and
// type first; the media service repeats the checks.
func (mc *MediaClient) UploadImage(ctx context.Context, ownerID, ownerType, filename, contentType string, data []byte) (*model.Media, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+escapeQuotes(filename)+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, errors.Wrap(err, "media: create file part")
	}
	if _, err := part.Write(data); err != nil {
		return nil, errors.Wrap(err, "media: write file part")
	}
	if err := w.WriteField("ownerId", ownerID); err != nil {
		return nil, errors.Wrap(err, "media: write ownerId")
	}
	if err := w.WriteField("ownerType", ownerType); err != nil {
		return nil, errors.Wrap(err, "media: write ownerType")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "media: close multipart")
	}

	const path = "/media/images"
	var env model.APIResponse[*model.Media]
	if err := mc.c.send(ctx, http.MethodPost, path, nil, &buf, w.FormDataContentType(), &env); err != nil {
		return nil, err
	}
	return unwrap(mc.c, http.MethodPost, path, env)
}

func (mc *MediaClient) DeleteImage(ctx context.Context, mediaID string) error {
	return mc.c.doJSON(ctx, http.MethodDelete, "/media/images/"+url.PathEscape(mediaID), nil, nil, nil)
}

func escapeQuotes(s string) string {
	var b bytes.Buffer
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
