package screen

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/fieldsales/backoffice/internal/platform/apiclient"
)

// MaxUploadBytes bounds a single multipart request.
const MaxUploadBytes = 100 << 20

var (
	// ErrNoFile means the field carried no file.
	ErrNoFile = errors.New("no file selected")
	// ErrFileType means the file is not of the accepted kind.
	ErrFileType = errors.New("file type not accepted")
)

// ParseUpload parses a multipart body within MaxUploadBytes.
func ParseUpload(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return r.ParseForm()
		}
		return err
	}
	return nil
}

// FormFiles reads every file sent under field whose media type starts with
// accept ("image/", "audio/", "video/"). The files are buffered so the parts
// can be replayed to the upstream.
func FormFiles(r *http.Request, field, accept string) ([]apiclient.FilePart, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, ErrNoFile
	}
	headers := r.MultipartForm.File[field]
	parts := make([]apiclient.FilePart, 0, len(headers))
	for _, fh := range headers {
		contentType := fh.Header.Get("Content-Type")
		if contentType == "" || contentType == "application/octet-stream" {
			if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename))); byExt != "" {
				contentType = byExt
			}
		}
		if accept != "" && !strings.HasPrefix(contentType, accept) {
			return nil, fmt.Errorf("%w: %s", ErrFileType, fh.Filename)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, err
		}
		parts = append(parts, apiclient.FilePart{
			Field:       field,
			FileName:    filepath.Base(fh.Filename),
			ContentType: contentType,
			Content:     bytes.NewReader(data),
		})
	}
	return parts, nil
}

// UploadMessage converts a FormFiles error into a form error.
func UploadMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoFile):
		return "Please choose a file."
	case errors.Is(err, ErrFileType):
		return "That file type is not accepted."
	default:
		return "The upload could not be read."
	}
}
