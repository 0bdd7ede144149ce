package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// serveHost resolves the host a public request is addressed to. An explicit
// query parameter wins so the edge proxy can forward the original host.
func serveHost(c *gin.Context) string {
	if host := strings.TrimSpace(c.Query("host")); host != "" {
		return host
	}
	host := c.Request.Host
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	return host
}

func (s *Server) RenderSite(c *gin.Context) {
	model, err := s.siteSvc.ResolveByHost(c.Request.Context(), serveHost(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": model})
}
