package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
)

type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	b, err := json.Marshal(value)

	if err != nil {
		slog.Error("error encoding JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"Server Error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	response := ErrorResponse{
		Message: message,
	}

	if err != nil {
		response.Error = err.Error()
	}

	writeJSON(w, status, response)
}

/*
queryID reads a positive integer id from the query string. The second
return is false when the parameter is missing or not a number.
*/
func queryID(r *http.Request, name string) (uint, bool) {
	value := r.URL.Query().Get(name)

	if value == "" {
		return 0, false
	}

	id, err := strconv.ParseUint(value, 10, 64)

	if err != nil || id == 0 {
		return 0, false
	}

	return uint(id), true
}
