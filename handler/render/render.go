package render

import (
	"encoding/json"
	"net/http"

	"moneymarket/core"
)

type H map[string]interface{}

// JSON render with json
func JSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(v)
}

// Error write error
func Error(w http.ResponseWriter, statusCode, errCode int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	_ = json.NewEncoder(w).Encode(H{"code": errCode, "msg": err.Error()})
}

// BadRequest bad request error
func BadRequest(w http.ResponseWriter, err error) {
	Error(w, http.StatusBadRequest, -1, err)
}

// NotFoundRequest not found request error
func NotFoundRequest(w http.ResponseWriter, err error) {
	Error(w, http.StatusNotFound, -1, err)
}

// Coded maps the known error codes onto http statuses; everything else
// is a plain bad request.
func Coded(w http.ResponseWriter, err error) {
	code, ok := err.(core.ErrorCode)
	if !ok {
		BadRequest(w, err)
		return
	}

	status := http.StatusBadRequest
	switch code {
	case core.ErrMarketNotFound, core.ErrStateNotFound, core.ErrPendingRequestNotFound:
		status = http.StatusNotFound
	case core.ErrOperationForbidden:
		status = http.StatusForbidden
	}

	Error(w, status, int(code), err)
}
