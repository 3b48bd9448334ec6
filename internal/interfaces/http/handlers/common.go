// Package handlers implements the HTTP API surface: classification, catalog
// administration, and health probes.
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/HSCode-Intelligence/pkg/errors"
	"github.com/turtacn/HSCode-Intelligence/pkg/types/common"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps an application error to its HTTP status and writes the
// structured error body.  Server-side failures are masked so internals never
// leak to callers.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	code := errors.GetCode(err)
	status := code.HTTPStatus()

	message := err.Error()
	if status >= 500 {
		message = "internal server error"
	}
	c.JSON(status, ErrorResponse{
		Code:    code.String(),
		Message: message,
	})
}

// parsePagination extracts page and page_size from query parameters,
// falling back to the normalized defaults.
func parsePagination(c *gin.Context) common.Pagination {
	p := common.Pagination{}
	if v, err := strconv.Atoi(c.Query("page")); err == nil {
		p.Page = v
	}
	if v, err := strconv.Atoi(c.Query("page_size")); err == nil {
		p.PageSize = v
	}
	p.Normalize()
	return p
}

//Personal.AI order the ending
