package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	leaddomain "github.com/smallbiznis/sitekit/internal/lead/domain"
)

// CaptureLead ingests a public contact-form submission. The owning site is
// resolved from the serving host, never from a tenant header.
func (s *Server) CaptureLead(c *gin.Context) {
	var req leaddomain.CaptureLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.Host = serveHost(c)

	lead, err := s.leadSvc.Capture(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": lead})
}

func (s *Server) ListLeads(c *gin.Context) {
	req := leaddomain.ListLeadsRequest{
		SiteID:    c.Param("id"),
		PageToken: c.Query("page_token"),
		PageSize:  parsePageSize(c.Query("page_size")),
	}

	resp, err := s.leadSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
