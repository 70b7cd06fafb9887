package http

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
)

// MultipartForm is an ordered set of text fields and file parts.
type MultipartForm struct {
	fields []formField
	files  []FilePart
}

type formField struct {
	name  string
	value string
}

type FilePart struct {
	Field       string
	FileName    string
	ContentType string
	Data        []byte
}

func NewMultipartForm() *MultipartForm {
	return &MultipartForm{}
}

func (f *MultipartForm) AddField(name, value string) {
	f.fields = append(f.fields, formField{name: name, value: value})
}

func (f *MultipartForm) AddFile(part FilePart) {
	f.files = append(f.files, part)
}

// encode renders the form once so retries resend identical bytes.
func (f *MultipartForm) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, field := range f.fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", err
		}
	}
	for _, file := range f.files {
		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.FileName))
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
