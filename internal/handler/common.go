package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ekarabulut/vblog/internal/store"
)

// pathID parses the named route parameter as a UUID.
func pathID(c echo.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}

// formUpload extracts the uploaded file from a multipart form field.
// A missing field is not an error; it returns a nil upload. The second
// return value closes the underlying file and must be called when the
// upload is non-nil.
func formUpload(c echo.Context, field string) (*store.Upload, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		// echo surfaces both "no such file" and "not a multipart
		// request" here; either way there is no upload.
		return nil, func() {}, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}
	up := &store.Upload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Content:  f,
	}
	return up, func() { f.Close() }, nil
}
