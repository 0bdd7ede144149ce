package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	domainsdomain "github.com/smallbiznis/sitekit/internal/domains/domain"
	"github.com/smallbiznis/sitekit/internal/providers/domainsearch"
)

func (s *Server) SearchDomains(c *gin.Context) {
	var req domainsdomain.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.domainSvc.Search(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DomainInstructions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.domainSvc.Instructions(c.Request.Context())})
}

type selectNewDomainRequest struct {
	Suggestion domainsearch.Suggestion `json:"suggestion"`
}

func (s *Server) SelectNewDomain(c *gin.Context) {
	var req selectNewDomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	session, err := s.domainSvc.SelectNew(c.Request.Context(), c.Param("id"), req.Suggestion)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": session})
}

type selectExistingDomainRequest struct {
	DomainName string `json:"domain_name"`
}

func (s *Server) SelectExistingDomain(c *gin.Context) {
	var req selectExistingDomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	session, err := s.domainSvc.SelectExisting(c.Request.Context(), c.Param("id"), req.DomainName)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": session})
}

func (s *Server) SelectSubdomain(c *gin.Context) {
	session, err := s.domainSvc.SelectSubdomain(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": session})
}
