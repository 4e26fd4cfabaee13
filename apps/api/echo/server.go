package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/assignment"
	"github.com/trezcool/ufundi/core/catalog"
	"github.com/trezcool/ufundi/core/curriculum"
	"github.com/trezcool/ufundi/core/decision"
	"github.com/trezcool/ufundi/core/enrollment"
	"github.com/trezcool/ufundi/core/memoir"
	"github.com/trezcool/ufundi/core/scope"
)

type (
	Options struct {
		Conf           *core.Config
		Logger         core.Logger
		DisableReqLogs bool

		CatalogSvc    *catalog.Service
		EnrollmentSvc *enrollment.Service
		CurriculumSvc *curriculum.Service
		MemoirSvc     *memoir.Service
		AssignmentSvc *assignment.Service
		DecisionSvc   *decision.Service
		Resolver      *scope.Resolver

		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(context.Context) error
		Close() error
	}

	server struct {
		opts         *Options
		app          *echo.Echo
		jwtConfig    middleware.JWTConfig
		errChan      chan error
		shutdownChan chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:         opts,
		app:          echo.New(),
		jwtConfig:    newJWTConfig(opts.Conf),
		errChan:      make(chan error, 1),
		shutdownChan: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdownChan, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)
	s.app.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(s.jwtConfig)

	registerCatalogAPI(v1, jwt, s.opts.CatalogSvc, s.opts.Validate)
	registerEnrollmentAPI(v1, jwt, s.opts.EnrollmentSvc, s.opts.DecisionSvc, s.opts.Resolver, s.opts.Validate)
	registerCurriculumAPI(v1, jwt, s.opts.CurriculumSvc, s.opts.DecisionSvc, s.opts.Resolver, s.opts.Validate)
	registerMemoirAPI(v1, jwt, s.opts.MemoirSvc, s.opts.DecisionSvc, s.opts.Resolver)
	registerAssignmentAPI(v1, jwt, s.opts.AssignmentSvc, s.opts.Validate)
	registerDecisionAPI(v1, jwt, s.opts.DecisionSvc)
}

func (s *server) Start() {
	s.errChan <- s.app.Start(s.opts.Conf.Server.Address())
}

func (s *server) Errors() <-chan error { return s.errChan }

func (s *server) ShutdownSignal() <-chan os.Signal { return s.shutdownChan }

func (s *server) signalShutdown() {
	s.shutdownChan <- syscall.SIGTERM
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Ufundi API!")
}
