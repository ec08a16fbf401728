package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/api/apierr"
)

// pagination reads page/page_size query params with sane bounds.
func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

// paramInt64 parses a numeric path parameter. A malformed id can never
// reference an existing resource, so it reads as not-found rather than as a
// body validation failure.
func paramInt64(c *gin.Context, name string) (int64, error) {
	value, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || value <= 0 {
		return 0, apierr.NotFound(fmt.Sprintf("invalid %s", name))
	}
	return value, nil
}
