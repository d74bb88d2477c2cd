package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// respondError writes the generic 500 payload. Every failure maps to the same
// status code; only the message differs.
func respondError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error":  err.Error(),
		"status": statusError,
	})
}

// recoverPanic turns a handler panic into the same 500 payload.
func recoverPanic(c *gin.Context, recovered any) {
	respondError(c, fmt.Errorf("%v", recovered))
}
