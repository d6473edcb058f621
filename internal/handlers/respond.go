package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gobinath946/project-weaver-sub001/internal/listquery"
)

// Uniform success envelopes; failures go through the error-handler
// middleware via fail.

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

func respondList(c *gin.Context, data any, pagination listquery.Pagination) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "pagination": pagination})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
