package v1

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"healthdb/internal/domain/patient"
	"healthdb/internal/validation"
)

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func respondOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data, Message: message})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// respondServiceError maps expected failures onto the wire contract:
// validation failures and unknown patients both answer 400, everything
// else is an opaque 500.
func respondServiceError(c *gin.Context, err error) {
	var (
		missingKey   *validation.MissingKeyError
		typeMismatch *validation.TypeMismatchError
		badBlood     *validation.InvalidBloodTypeError
		badMRN       *validation.InvalidMRNError
	)

	switch {
	case errors.As(err, &missingKey),
		errors.As(err, &typeMismatch),
		errors.As(err, &badBlood),
		errors.As(err, &badMRN):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, patient.ErrPatientNotFound),
		errors.Is(err, patient.ErrMalformedName),
		errors.Is(err, patient.ErrInvalidBloodType):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

// decodeBody decodes a JSON object body with UseNumber so the validator
// can tell integer and floating-point literals apart.
func decodeBody(c *gin.Context) (map[string]any, bool) {
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()

	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return nil, false
	}
	return body, true
}

// asInt64 extracts an integer value already vetted by ValidateShape.
func asInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	case json.Number:
		i, _ := n.Int64()
		return i
	}
	return 0
}
