package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/sitekit/internal/render"
	sitedomain "github.com/smallbiznis/sitekit/internal/site/domain"
)

func (s *Server) ListSites(c *gin.Context) {
	req := sitedomain.ListSitesRequest{
		PageToken: c.Query("page_token"),
		PageSize:  parsePageSize(c.Query("page_size")),
		Status:    c.Query("status"),
	}

	resp, err := s.siteSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSite(c *gin.Context) {
	site, err := s.siteSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": site})
}

func (s *Server) UpdateSiteContent(c *gin.Context) {
	var content render.SiteContent
	if err := c.ShouldBindJSON(&content); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	site, err := s.siteSvc.UpdateContent(c.Request.Context(), c.Param("id"), content)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": site})
}

func (s *Server) DeleteSite(c *gin.Context) {
	if err := s.siteSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

// PreviewSite resolves the same render model the public route serves, so the
// dashboard preview is always what launch day looks like.
func (s *Server) PreviewSite(c *gin.Context) {
	model, err := s.siteSvc.Preview(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": model})
}

func parsePageSize(raw string) int32 {
	if raw == "" {
		return 0
	}
	size, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || size < 0 {
		return 0
	}
	return int32(size)
}
