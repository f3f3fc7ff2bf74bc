package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pradeepl-italliance/Era-flix-sub000/internal/pkg/response"
)

// ErrorLogger turns a panic into a 500 envelope and writes one
// request_error line for each handler error or bare 5xx.
func ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if rec := recover(); rec != nil {
				response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				log.Print(failureLine(c, start, "panic", fmt.Sprint(rec)) + "\n" + string(debug.Stack()))
				return
			}
			for _, e := range c.Errors {
				log.Print(failureLine(c, start, errorKind(e), e.Error()))
			}
			if len(c.Errors) == 0 && c.Writer.Status() >= http.StatusInternalServerError {
				log.Print(failureLine(c, start, "status", http.StatusText(c.Writer.Status())))
			}
		}()
		c.Next()
	}
}

func errorKind(e *gin.Error) string {
	switch {
	case e.IsType(gin.ErrorTypeBind):
		return "bind"
	case e.IsType(gin.ErrorTypePublic):
		return "public"
	case e.IsType(gin.ErrorTypePrivate):
		return "handler"
	}
	return "other"
}

func failureLine(c *gin.Context, start time.Time, kind, msg string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "request_error kind=%s status=%d %s route=%s path=%s",
		kind, c.Writer.Status(), c.Request.Method, routeOf(c), c.Request.URL.Path)
	if uid := c.GetInt64("user_id"); uid != 0 {
		fmt.Fprintf(&b, " user_id=%d role=%s", uid, c.GetString("role"))
	}
	if code := c.Param("code"); code != "" {
		fmt.Fprintf(&b, " booking_code=%s", code)
	}
	if id := c.GetHeader("X-Request-ID"); id != "" {
		fmt.Fprintf(&b, " request_id=%s", id)
	}
	fmt.Fprintf(&b, " took=%s error=%q", time.Since(start).Round(time.Microsecond), msg)
	return b.String()
}

func routeOf(c *gin.Context) string {
	if r := c.FullPath(); r != "" {
		return r
	}
	return "-"
}
