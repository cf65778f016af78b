// Package api exposes the board over JSON HTTP.
package api

import (
	"context"
	"errors"
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/hiring-board/internal/auth"
	"github.com/maxaizer/hiring-board/internal/domain/models"
	log "github.com/sirupsen/logrus"
	"net/http"
	"time"
)

type authProvider interface {
	SignUp(ctx context.Context, request auth.SignUpRequest) (*auth.Grant, error)
	SignIn(ctx context.Context, credentials auth.Credentials) (*auth.Grant, error)
	SignOut(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*models.Principal, error)
}

type sessionResolver interface {
	Resolve(ctx context.Context, principal models.Principal) (*models.Session, error)
}

type jobRepository interface {
	Create(ctx context.Context, actor models.Session, input models.JobInput) (*models.JobListing, error)
	List(ctx context.Context, role models.Role) ([]models.JobListing, error)
	Get(ctx context.Context, role models.Role, id string) (*models.JobListing, error)
	SetStatus(ctx context.Context, actor models.Session, jobID string, status models.JobStatus) (*models.JobListing, error)
}

type applicationRepository interface {
	Submit(ctx context.Context, actor models.Session, jobID string, profile map[string]string) (*models.Application, error)
	ListByJob(ctx context.Context, actor models.Session, jobID string) ([]models.Application, error)
	CountByJob(ctx context.Context, actor models.Session) (map[string]int, error)
}

type healthChecker interface {
	Ping(ctx context.Context) error
}

type Dependencies struct {
	Auth         authProvider
	Sessions     sessionResolver
	Jobs         jobRepository
	Applications applicationRepository
	Health       healthChecker
}

type Server struct {
	deps         Dependencies
	engine       *gin.Engine
	http         *http.Server
	authLimiters *clientLimiters
}

func NewServer(addr string, signInRatePerSecond float64, deps Dependencies) (*Server, error) {
	if deps.Auth == nil || deps.Sessions == nil || deps.Jobs == nil || deps.Applications == nil {
		return nil, errors.New("api dependencies are incomplete")
	}
	if signInRatePerSecond <= 0 {
		return nil, errors.New("sign in rate must be greater than zero")
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	if err := engine.SetTrustedProxies(nil); err != nil {
		return nil, err
	}
	engine.Use(gin.Recovery(), requestLogger())

	s := &Server{
		deps:         deps,
		engine:       engine,
		authLimiters: newClientLimiters(signInRatePerSecond),
	}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.engine.GET("/health", s.health)

	authGroup := s.engine.Group("/auth")
	authGroup.POST("/signup", s.limitAuth("signup"), s.signUp)
	authGroup.POST("/signin", s.limitAuth("signin"), s.signIn)
	authGroup.POST("/signout", s.signOut)

	private := s.engine.Group("/", s.requireSession())
	private.GET("/me", s.me)
	private.GET("/jobs", s.listJobs)
	private.POST("/jobs", s.createJob)
	private.GET("/jobs/:id", s.getJob)
	private.PATCH("/jobs/:id/status", s.setJobStatus)
	private.POST("/jobs/:id/applications", s.submitApplication)
	private.GET("/jobs/:id/applications", s.listApplications)
	private.GET("/applications/counts", s.countApplications)
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run blocks until the server is shut down.
func (s *Server) Run() error {
	log.Infof("http server listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
