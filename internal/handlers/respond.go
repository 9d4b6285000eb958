package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/givebridge/givebridge-backend/internal/lifecycle"
)

// respondError writes the uniform error envelope. Lifecycle errors carry
// their own status; anything else is a server error and the detail stays
// out of the response.
func respondError(c *gin.Context, err error) {
	var lcErr *lifecycle.Error
	if errors.As(err, &lcErr) {
		c.JSON(lcErr.HTTPStatus(), gin.H{"success": false, "message": lcErr.Message})
		return
	}

	log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(500, gin.H{"success": false, "message": "Server error"})
}

// pagination pulls page/limit query params with the listing defaults.
func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// pages computes the page count for a listing.
func pages(total int64, limit int) int64 {
	return (total + int64(limit) - 1) / int64(limit)
}
