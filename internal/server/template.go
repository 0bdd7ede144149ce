package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	templatedomain "github.com/smallbiznis/sitekit/internal/template/domain"
)

func (s *Server) ListTemplates(c *gin.Context) {
	templates, err := s.templateSvc.List(c.Request.Context(), templatedomain.ListTemplatesRequest{
		Trade: c.Query("trade"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": templates})
}
