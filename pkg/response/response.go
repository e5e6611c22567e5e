package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gharbhada/gharbhada-api/pkg/apperr"
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

// ErrorBody is the machine-readable part of a failure envelope.
type ErrorBody struct {
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	}
	ctx.JSON(status, resp)
	return resp
}

func Error[T any](ctx *gin.Context, status int, message string, err interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     err,
	}
	ctx.JSON(status, resp)
	return resp
}

// AppError serializes an error returned by a service. apperr values carry
// their own status, code, and field details; anything else is a 500. The
// HTTP layer does no mapping beyond this.
func AppError(ctx *gin.Context, err error) APIResponse[any] {
	if ae, ok := err.(*apperr.Error); ok {
		return Error[any](ctx, ae.HTTPStatus(), ae.Message, ErrorBody{Code: ae.Code, Details: ae.Details})
	}
	return Error[any](ctx, http.StatusInternalServerError, "internal server error", nil)
}
