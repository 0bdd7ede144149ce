package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	publishdomain "github.com/smallbiznis/sitekit/internal/publish/domain"
)

func (s *Server) Launch(c *gin.Context) {
	var req publishdomain.LaunchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.publishSvc.Launch(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"data": result})
}

func (s *Server) PublishStatus(c *gin.Context) {
	report, err := s.publishSvc.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}
