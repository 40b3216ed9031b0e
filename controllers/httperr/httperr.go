// Package httperr translates domain errors into HTTP responses at the
// handler boundary.
package httperr

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ivan-22-3-5/e-commerce/apperrors"
)

// Respond writes the status mapped from the error. Unexpected errors are
// logged and reported as a plain 500 without leaking internals.
func Respond(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
