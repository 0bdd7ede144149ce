package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	wizarddomain "github.com/smallbiznis/sitekit/internal/wizard/domain"
)

func (s *Server) StartWizardSession(c *gin.Context) {
	session, err := s.wizardSvc.Start(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": session})
}

func (s *Server) GetWizardSession(c *gin.Context) {
	session, err := s.wizardSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": session})
}

func (s *Server) MutateWizardSession(c *gin.Context) {
	var patch wizarddomain.DataPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	session, err := s.wizardSvc.Mutate(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": session})
}

// AdvanceWizardSession moves the session forward. A step that fails its
// validation is a normal 200 response carrying the human-readable message,
// not an error.
func (s *Server) AdvanceWizardSession(c *gin.Context) {
	result, err := s.wizardSvc.Advance(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (s *Server) RetreatWizardSession(c *gin.Context) {
	session, err := s.wizardSvc.Retreat(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": session})
}

type jumpRequest struct {
	Step int `json:"step"`
}

func (s *Server) JumpWizardSession(c *gin.Context) {
	var req jumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	session, err := s.wizardSvc.JumpTo(c.Request.Context(), c.Param("id"), req.Step)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": session})
}

func (s *Server) PrefillWizardSession(c *gin.Context) {
	var source wizarddomain.SourceProfile
	if err := c.ShouldBindJSON(&source); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	session, err := s.wizardSvc.Prefill(c.Request.Context(), c.Param("id"), source)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": session})
}

func (s *Server) ResetWizardSession(c *gin.Context) {
	session, err := s.wizardSvc.Reset(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": session})
}
