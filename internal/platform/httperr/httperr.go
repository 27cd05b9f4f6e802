// Package httperr maps service errors that every feature shares onto responses.
package httperr

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tsirionantsoa/taskhub/internal/platform/database"
	"github.com/tsirionantsoa/taskhub/internal/platform/logging"
	"github.com/tsirionantsoa/taskhub/internal/platform/validation"
)

// Write answers 400 for validation failures and 500 for anything else,
// logging the latter. Feature handlers map their own sentinels first.
func Write(c *gin.Context, operation string, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
		return
	}

	logger := logging.NewLogger(c.Request.Context())
	var serr *database.StorageError
	if errors.As(err, &serr) {
		logger.LogErrorf(operation, "storage op=%s error=%v", serr.Op, serr.Err)
	} else {
		logger.LogError(operation, err)
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// BadRequest answers 400 with message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// NotFound answers 404 with message.
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"error": message})
}

// PathID parses a numeric path parameter, answering 400 when it is not one.
func PathID(c *gin.Context, param string) (int64, bool) {
	return parseID(c, param, c.Param(param))
}

// QueryID parses a required numeric query parameter.
func QueryID(c *gin.Context, key string) (int64, bool) {
	return parseID(c, key, c.Query(key))
}

func parseID(c *gin.Context, name, raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		BadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
