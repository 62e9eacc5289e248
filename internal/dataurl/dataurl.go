// Package dataurl converts uploaded image files into the canonical
// "data:<mime>;base64,<payload>" form used both as a display source and, once
// the prefix is stripped, as the payload sent to generation services.
package dataurl

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Errors returned by the dataurl package
var (
	// ErrRead is returned when an upload cannot be read into an encoded string.
	ErrRead = errors.New("failed to read file as a data URL")

	// ErrUnsupportedType is returned when an upload is not a PNG, JPEG or WEBP image.
	ErrUnsupportedType = errors.New("unsupported image type")

	// ErrMalformed is returned when a string is not in canonical data URL form.
	ErrMalformed = errors.New("malformed data URL")
)

// Accepted upload media types.
const (
	MIMETypePNG  = "image/png"
	MIMETypeJPEG = "image/jpeg"
	MIMETypeWEBP = "image/webp"
)

// MaxUploadBytes bounds how much of an upload is read.
const MaxUploadBytes = 20 << 20

var acceptedTypes = []string{MIMETypePNG, MIMETypeJPEG, MIMETypeWEBP}

// Encode reads r fully and returns its canonical data URL.
func Encode(r io.Reader) (string, error) {
	if r == nil {
		return "", fmt.Errorf("%w: nil reader", ErrRead)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRead, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrRead)
	}
	if len(data) > MaxUploadBytes {
		return "", fmt.Errorf("%w: file exceeds %d bytes", ErrRead, MaxUploadBytes)
	}

	mime := mimetype.Detect(data)
	if !mimetype.EqualsAny(mime.String(), acceptedTypes...) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mime.String())
	}

	return New(mime.String(), base64.StdEncoding.EncodeToString(data)), nil
}

// New builds the canonical data URL for a base64 payload.
func New(mimeType, payload string) string {
	return "data:" + mimeType + ";base64," + payload
}

// Payload strips the metadata prefix from a data URL and returns the
// base64 payload that follows the first comma.
func Payload(dataURL string) (string, error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return "", fmt.Errorf("%w: missing data: prefix", ErrMalformed)
	}
	_, payload, ok := strings.Cut(dataURL, ",")
	if !ok || payload == "" {
		return "", fmt.Errorf("%w: missing payload", ErrMalformed)
	}
	return payload, nil
}

// Decode returns the raw bytes of a data URL's payload.
func Decode(dataURL string) ([]byte, error) {
	payload, err := Payload(dataURL)
	if err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return data, nil
}

// DetectMIMEType sniffs the media type of a base64 payload from its content.
// Payloads that cannot be recognized report "application/octet-stream".
func DetectMIMEType(payload string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return mimetype.Detect(data).String(), nil
}
