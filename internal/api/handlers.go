package api

import (
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/hiring-board/internal/auth"
	"github.com/maxaizer/hiring-board/internal/domain/models"
	"net/http"
)

type statusRequest struct {
	Status string `json:"status"`
}

type applicationRequest struct {
	Profile map[string]string `json:"profile"`
}

func (s *Server) health(c *gin.Context) {
	if s.deps.Health != nil {
		if err := s.deps.Health.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) signUp(c *gin.Context) {
	var request auth.SignUpRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		bindError(c, err)
		return
	}

	grant, err := s.deps.Auth.SignUp(c.Request.Context(), request)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, grant)
}

func (s *Server) signIn(c *gin.Context) {
	var credentials auth.Credentials
	if err := c.ShouldBindJSON(&credentials); err != nil {
		bindError(c, err)
		return
	}

	grant, err := s.deps.Auth.SignIn(c.Request.Context(), credentials)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, grant)
}

func (s *Server) signOut(c *gin.Context) {
	if err := s.deps.Auth.SignOut(c.Request.Context(), bearerToken(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) me(c *gin.Context) {
	c.JSON(http.StatusOK, currentSession(c))
}

func (s *Server) listJobs(c *gin.Context) {
	jobs, err := s.deps.Jobs.List(c.Request.Context(), currentSession(c).Role)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (s *Server) getJob(c *gin.Context) {
	job, err := s.deps.Jobs.Get(c.Request.Context(), currentSession(c).Role, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (s *Server) createJob(c *gin.Context) {
	var input models.JobInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	job, err := s.deps.Jobs.Create(c.Request.Context(), currentSession(c), input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (s *Server) setJobStatus(c *gin.Context) {
	var request statusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		bindError(c, err)
		return
	}

	job, err := s.deps.Jobs.SetStatus(c.Request.Context(), currentSession(c), c.Param("id"),
		models.JobStatus(request.Status))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (s *Server) submitApplication(c *gin.Context) {
	var request applicationRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		bindError(c, err)
		return
	}

	application, err := s.deps.Applications.Submit(c.Request.Context(), currentSession(c), c.Param("id"),
		request.Profile)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, application)
}

func (s *Server) listApplications(c *gin.Context) {
	applications, err := s.deps.Applications.ListByJob(c.Request.Context(), currentSession(c), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, applications)
}

func (s *Server) countApplications(c *gin.Context) {
	counts, err := s.deps.Applications.CountByJob(c.Request.Context(), currentSession(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}
