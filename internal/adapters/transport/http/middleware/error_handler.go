package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrorHandler turns panics and errors pushed with c.Error into a JSON
// failure. Stack traces are included only outside production.
func ErrorHandler(log *zap.Logger, production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err := errors.Errorf("panic: %v", r)
				log.Error("panic recovered",
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.String("stack", fmt.Sprintf("%+v", err)),
				)
				respond(c, http.StatusInternalServerError, err, production)
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		last := c.Errors.Last().Err
		for _, e := range c.Errors {
			log.Error("handler error",
				zap.Int("status", c.Writer.Status()),
				zap.Error(e.Err),
				zap.String("path", c.Request.URL.Path),
			)
		}
		if c.Writer.Written() {
			return
		}

		status := c.Writer.Status()
		if status == http.StatusOK {
			status = http.StatusInternalServerError
		}
		respond(c, status, errors.WithStack(last), production)
	}
}

func respond(c *gin.Context, status int, err error, production bool) {
	if c.Writer.Written() {
		return
	}
	body := gin.H{
		"success": false,
		"message": errors.Cause(err).Error(),
	}
	if !production {
		body["stack"] = fmt.Sprintf("%+v", err)
	}
	c.AbortWithStatusJSON(status, body)
}

// NotFound answers unknown routes.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": fmt.Sprintf("route not found: %s %s", c.Request.Method, c.Request.URL.Path),
		})
	}
}
