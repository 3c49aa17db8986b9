package server

import (
	"encoding/json"
	"errors"
	"net/http"

	ferrors "github.com/matzehuels/figtree/pkg/errors"
)

// errorBody is the JSON body of every error response.
type errorBody struct {
	Error    string   `json:"error"`
	Code     string   `json:"code,omitempty"`
	Problems []string `json:"problems,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code by its error code. Server-side
// failures are reported without detail.
func writeError(w http.ResponseWriter, err error) {
	code := ferrors.GetCode(err)
	status := statusOf(code)
	body := errorBody{Error: err.Error(), Code: string(code)}
	if status >= http.StatusInternalServerError {
		body.Error = http.StatusText(status)
	}
	var verrs *ferrors.ValidationErrors
	if errors.As(err, &verrs) {
		body.Problems = verrs.Problems
	}
	writeJSON(w, status, body)
}

func statusOf(code ferrors.Code) int {
	switch code {
	case ferrors.ErrCodeInvalidInput, ferrors.ErrCodeInvalidDocument, ferrors.ErrCodeInvalidSettings,
		ferrors.ErrCodeInvalidFormat, ferrors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case ferrors.ErrCodeNotFound, ferrors.ErrCodeFileNotFound, ferrors.ErrCodeTemplateNotFound:
		return http.StatusNotFound
	case ferrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ferrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case ferrors.ErrCodeStorage:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
