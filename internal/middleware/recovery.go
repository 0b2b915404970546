package middleware

import (
	"errors"
	"net/http"

	"adalert-srv/pkg/response"

	"github.com/gin-gonic/gin"
)

// Recovery turns handler panics into 500 responses and reports them to the ops channel.
// http.ErrAbortHandler is re-raised so net/http can drop the connection.
func (m Middleware) Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			m.l.Errorf(c.Request.Context(), "internal.middleware.Recovery: panic on %s %s: %v",
				c.Request.Method, c.FullPath(), rec)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			response.PanicError(c, rec, m.slack)
			c.Abort()
		}()
		c.Next()
	}
}
