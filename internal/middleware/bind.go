package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"spotmap/pkg/e"
	"spotmap/pkg/validator"
)

const maxBodyBytes = 1 << 20

// BindJSON decodes the request body into T, rejecting unknown fields and
// trailing data, then runs the struct's validate tags. Failures match e.ErrValidation.
func BindJSON[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var target T

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&target); err != nil {
		return target, e.Validation(fmt.Sprintf("invalid JSON: %v", err))
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return target, e.Validation("invalid JSON: unexpected data after the object")
	}

	if err := validator.ValidateStruct(target); err != nil {
		return target, err
	}
	return target, nil
}
