package gin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kanavsharmaa/pdf-annotator/log"
)

func cors(c *gin.Context) {
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, PUT, POST, DELETE")
	c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "Accept-Language, Authorization, Content-Type")
	if c.Request.Method == "OPTIONS" {
		c.AbortWithStatus(http.StatusOK)
		return
	}
	c.Next()
}

func accessLog(logger log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		l := logger.
			WithField("method", c.Request.Method).
			WithField("path", path).
			WithField("status", status).
			WithField("latency", time.Since(start).String())

		switch {
		case status >= http.StatusInternalServerError:
			l.Errorf("%s %s", c.Request.Method, path)
		case status >= http.StatusBadRequest:
			l.Warnf("%s %s", c.Request.Method, path)
		default:
			l.Infof("%s %s", c.Request.Method, path)
		}
	}
}
