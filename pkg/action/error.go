package action

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/berfenger/devicecap/pkg/parameter"
)

type ErrorKind uint8

const (
	// InvalidData means the caller sent inputs the action cannot accept.
	InvalidData ErrorKind = iota
	// InternalError means the action failed on the device side.
	InternalError
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidData:
		return "InvalidData"
	case InternalError:
		return "Internal"
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

func (k ErrorKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *ErrorKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "InvalidData":
		*k = InvalidData
	case "Internal":
		*k = InternalError
	default:
		return fmt.Errorf("unknown error kind %q", s)
	}
	return nil
}

// ErrorResponse is the body returned when an action fails.
type ErrorResponse struct {
	Kind        ErrorKind `json:"error"`
	Description string    `json:"description"`
	Info        string    `json:"info,omitempty"`
}

func (e *ErrorResponse) Error() string {
	if e.Info == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Description)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Description, e.Info)
}

// StatusCode maps the error kind onto HTTP.
func (e *ErrorResponse) StatusCode() int {
	if e.Kind == InvalidData {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func withDescription(kind ErrorKind, description string, info error) *ErrorResponse {
	e := &ErrorResponse{Kind: kind, Description: description}
	if info != nil {
		e.Info = info.Error()
	}
	return e
}

func InvalidDataError(description string) *ErrorResponse {
	return withDescription(InvalidData, description, nil)
}

func InvalidDataWithError(description string, err error) *ErrorResponse {
	return withDescription(InvalidData, description, err)
}

func Internal(description string) *ErrorResponse {
	return withDescription(InternalError, description, nil)
}

func InternalWithError(description string, err error) *ErrorResponse {
	return withDescription(InternalError, description, err)
}

// AsErrorResponse converts any handler error into a response body. Input
// resolution failures count as invalid data, everything else as internal.
func AsErrorResponse(err error) *ErrorResponse {
	var resp *ErrorResponse
	if errors.As(err, &resp) {
		return resp
	}
	if errors.Is(err, parameter.ErrInvalidInput) {
		return InvalidDataWithError("invalid inputs", err)
	}
	return InternalWithError("action failed", err)
}
