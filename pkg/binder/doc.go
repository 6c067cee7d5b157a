// Package binder decodes HTTP request bodies into structs.
//
// JSON handles application/json bodies; Form handles
// application/x-www-form-urlencoded bodies using `form:"name"` struct tags;
// Body picks one of the two from the Content-Type header. Every binder caps
// the body at the given size.
//
//	type ContactRequest struct {
//	    Name  string `json:"name" form:"name"`
//	    Email string `json:"email" form:"email"`
//	}
//
//	var req ContactRequest
//	if err := binder.Body(64 << 10)(r, &req); err != nil {
//	    // errors.Is(err, binder.ErrUnsupportedMediaType) and friends
//	}
//
// JSON decoding is strict: unknown fields and trailing data are rejected.
package binder
