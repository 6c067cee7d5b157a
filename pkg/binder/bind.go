package binder

import (
	"fmt"
	"mime"
	"net/http"
)

// DefaultMaxBodySize is used when a binder is created with a non-positive limit.
const DefaultMaxBodySize = 1 << 20

// Func binds the request into v, which must be a non-nil pointer.
type Func func(r *http.Request, v any) error

const (
	mediaJSON = "application/json"
	mediaForm = "application/x-www-form-urlencoded"
)

// Body dispatches to JSON or Form based on the request Content-Type.
func Body(maxBytes int64) Func {
	jsonBinder, formBinder := JSON(maxBytes), Form(maxBytes)
	return func(r *http.Request, v any) error {
		mediaType, err := mediaTypeOf(r)
		if err != nil {
			return err
		}
		switch mediaType {
		case mediaJSON:
			return jsonBinder(r, v)
		case mediaForm:
			return formBinder(r, v)
		default:
			return fmt.Errorf("%w: got %s, expected %s or %s", ErrUnsupportedMediaType, mediaType, mediaJSON, mediaForm)
		}
	}
}

func mediaTypeOf(r *http.Request) (string, error) {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return "", ErrMissingContentType
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMediaType, contentType)
	}
	return mediaType, nil
}

func limit(maxBytes int64) int64 {
	if maxBytes <= 0 {
		return DefaultMaxBodySize
	}
	return maxBytes
}
