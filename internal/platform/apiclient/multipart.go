package apiclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
)

// XLSXContentType is the media type of spreadsheet reports.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// FilePart is one file field of a multipart request.
type FilePart struct {
	Field       string
	FileName    string
	ContentType string
	Content     io.Reader
}

// Multipart is a single-shot multipart body. Uploads are not chunked or resumed.
type Multipart struct {
	Fields url.Values
	Files  []FilePart
}

// File is a downloaded report.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// PostMultipart uploads form to path.
func (c *Client) PostMultipart(ctx context.Context, path string, form Multipart, dest any) error {
	return c.sendMultipart(ctx, http.MethodPost, path, form, dest)
}

// PutMultipart uploads form to path with PUT.
func (c *Client) PutMultipart(ctx context.Context, path string, form Multipart, dest any) error {
	return c.sendMultipart(ctx, http.MethodPut, path, form, dest)
}

func (c *Client) sendMultipart(ctx context.Context, method, path string, form Multipart, dest any) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, values := range form.Fields {
		for _, v := range values {
			if err := writer.WriteField(key, v); err != nil {
				return fmt.Errorf("apiclient: write field %s: %w", key, err)
			}
		}
	}
	for _, file := range form.Files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.FileName))
		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return fmt.Errorf("apiclient: create part %s: %w", file.Field, err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return fmt.Errorf("apiclient: copy part %s: %w", file.Field, err)
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}
	resp, err := c.do(ctx, method, path, nil, body, writer.FormDataContentType())
	if err != nil {
		return err
	}
	return decode(resp, dest)
}

// Download fetches a binary report.
func (c *Client) Download(ctx context.Context, path string, query url.Values, fallbackName string) (*File, error) {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil, "")
	if err != nil {
		return nil, err
	}
	defer drain(resp)
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: read %s: %w", path, err)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" || strings.HasPrefix(contentType, "application/octet-stream") {
		contentType = XLSXContentType
	}
	return &File{
		Name:        fileName(resp.Header.Get("Content-Disposition"), fallbackName),
		ContentType: contentType,
		Data:        data,
	}, nil
}

type base64Payload struct {
	File     string `json:"file"`
	Data     string `json:"data"`
	Content  string `json:"content"`
	FileName string `json:"filename"`
}

// DownloadBase64 fetches a report delivered as base64 text, either bare or in a JSON object.
func (c *Client) DownloadBase64(ctx context.Context, path string, query url.Values, fallbackName string) (*File, error) {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil, "")
	if err != nil {
		return nil, err
	}
	defer drain(resp)
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: read %s: %w", path, err)
	}

	encoded := strings.TrimSpace(string(raw))
	name := fallbackName
	if strings.HasPrefix(encoded, "{") {
		var payload base64Payload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("apiclient: decode %s: %w", path, err)
		}
		encoded = firstNonEmpty(payload.File, payload.Data, payload.Content)
		if payload.FileName != "" {
			name = payload.FileName
		}
	} else {
		encoded = strings.Trim(encoded, `"`)
	}
	if idx := strings.Index(encoded, "base64,"); idx >= 0 {
		encoded = encoded[idx+len("base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("apiclient: base64 %s: %w", path, err)
	}
	return &File{Name: name, ContentType: XLSXContentType, Data: data}, nil
}

func fileName(disposition, fallback string) string {
	if disposition == "" {
		return fallback
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil || params["filename"] == "" {
		return fallback
	}
	return params["filename"]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
