package gin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kanavsharmaa/pdf-annotator/log"
)

// Server is the gin engine every transport registers its handlers on.
type Server struct {
	router *gin.Engine
}

func NewServer(env string, logger log.Logger) *Server {
	if env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	} else if env == "test" {
		gin.SetMode(gin.TestMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), accessLog(logger), cors)

	// Unknown route
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
	})

	// Ping
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, map[string]string{"data": "ok"})
	})

	return &Server{router: router}
}

// RegisterHandler mounts h on path for method. The route parameters are
// made available to h through Params.
func (s *Server) RegisterHandler(path, method string, h http.Handler) {
	s.router.Handle(method, path, func(c *gin.Context) {
		params := make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			params[p.Key] = p.Value
		}

		ctx := context.WithValue(c.Request.Context(), paramsContextKey, params)
		h.ServeHTTP(c.Writer, c.Request.WithContext(ctx))
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
