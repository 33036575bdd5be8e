package shopapi

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/pkg/errors"
)

// ImportEntities lists the entity types accepted by the bulk import endpoints.
var ImportEntities = []string{
	"brands",
	"categories",
	"colors",
	"sizes",
	"users",
	"products",
	"product-variants",
	"coupons",
	"discounts",
}

func IsImportEntity(entity string) bool {
	for _, e := range ImportEntities {
		if e == entity {
			return true
		}
	}
	return false
}

// Template is a downloadable spreadsheet template for one entity type.
type Template struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ImportService struct {
	c *Client
}

// Import uploads a spreadsheet as the multipart field "file". The file is
// relayed untouched; parsing happens on the backend.
func (s *ImportService) Import(ctx context.Context, entity, filename string, file io.Reader) (string, error) {
	if !IsImportEntity(entity) {
		return "", errors.Wrap(ErrUnknownImportEntity, entity)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", errors.Wrap(err, "multipart file part")
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", errors.Wrap(err, "copy import file")
	}
	if err := mw.Close(); err != nil {
		return "", errors.Wrap(err, "close multipart body")
	}

	var message string
	err = s.c.send(ctx, http.MethodPost, "/import/"+entity, nil, &buf, mw.FormDataContentType(), func(resp *http.Response) error {
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return errors.Wrap(err, "read import response")
		}
		message = string(b)
		return nil
	})
	return message, err
}

func (s *ImportService) Template(ctx context.Context, entity string) (*Template, error) {
	if !IsImportEntity(entity) {
		return nil, errors.Wrap(ErrUnknownImportEntity, entity)
	}

	tpl := &Template{Filename: entity + "_template.xlsx"}
	err := s.c.send(ctx, http.MethodGet, "/templates/"+entity, nil, nil, "", func(resp *http.Response) error {
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return errors.Wrap(err, "read template")
		}
		tpl.Data = b
		tpl.ContentType = resp.Header.Get("Content-Type")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tpl, nil
}
