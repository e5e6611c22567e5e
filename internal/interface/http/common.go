package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gharbhada/gharbhada-api/pkg/apperr"
	"github.com/gharbhada/gharbhada-api/pkg/response"
	"github.com/gharbhada/gharbhada-api/pkg/validation"
)

// bindError answers a failed ShouldBindJSON with the same envelope shape
// the services produce for validation failures.
func bindError(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "validation failed", response.ErrorBody{
		Code:    apperr.CodeValidation,
		Details: validation.ToDetails(err),
	})
}

func queryInt(c *gin.Context, name string, def int) int {
	v := c.Query(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
