package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"site-diary/internal/diary"
	"site-diary/internal/logger"
)

// fail maps a diary error kind to its status code. Internal failures are
// logged with their cause and answered with a generic message.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, diary.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, diary.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, diary.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, diary.ErrBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("request failed", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
