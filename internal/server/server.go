package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/sitekit/internal/config"
	"github.com/smallbiznis/sitekit/internal/domains"
	domainsdomain "github.com/smallbiznis/sitekit/internal/domains/domain"
	"github.com/smallbiznis/sitekit/internal/lead"
	leaddomain "github.com/smallbiznis/sitekit/internal/lead/domain"
	"github.com/smallbiznis/sitekit/internal/observability"
	obsmiddleware "github.com/smallbiznis/sitekit/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/sitekit/internal/observability/metrics"
	obstracing "github.com/smallbiznis/sitekit/internal/observability/tracing"
	"github.com/smallbiznis/sitekit/internal/providers"
	"github.com/smallbiznis/sitekit/internal/publish"
	publishdomain "github.com/smallbiznis/sitekit/internal/publish/domain"
	"github.com/smallbiznis/sitekit/internal/scheduler"
	"github.com/smallbiznis/sitekit/internal/site"
	sitedomain "github.com/smallbiznis/sitekit/internal/site/domain"
	"github.com/smallbiznis/sitekit/internal/template"
	templatedomain "github.com/smallbiznis/sitekit/internal/template/domain"
	"github.com/smallbiznis/sitekit/internal/wizard"
	wizarddomain "github.com/smallbiznis/sitekit/internal/wizard/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	config.Module,
	observability.Module,
	fx.Provide(registerGin),
	providers.Module,
	template.Module,
	site.Module,
	lead.Module,
	wizard.Module,
	domains.Module,
	publish.Module,
	scheduler.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	wizardSvc   wizarddomain.Service
	domainSvc   domainsdomain.Service
	publishSvc  publishdomain.Orchestrator
	siteSvc     sitedomain.Service
	templateSvc templatedomain.Service
	leadSvc     leaddomain.Service
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	WizardSvc   wizarddomain.Service
	DomainSvc   domainsdomain.Service
	PublishSvc  publishdomain.Orchestrator
	SiteSvc     sitedomain.Service
	TemplateSvc templatedomain.Service
	LeadSvc     leaddomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		wizardSvc:   p.WizardSvc,
		domainSvc:   p.DomainSvc,
		publishSvc:  p.PublishSvc,
		siteSvc:     p.SiteSvc,
		templateSvc: p.TemplateSvc,
		leadSvc:     p.LeadSvc,
	}

	svc.registerAPIRoutes()
	svc.registerPublicRoutes()

	return svc
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1", TenantRequired())
	{
		sessions := v1.Group("/wizard/sessions")
		{
			sessions.POST("", s.StartWizardSession)
			sessions.GET("/:id", s.GetWizardSession)
			sessions.PATCH("/:id", s.MutateWizardSession)
			sessions.POST("/:id/advance", s.AdvanceWizardSession)
			sessions.POST("/:id/retreat", s.RetreatWizardSession)
			sessions.POST("/:id/step", s.JumpWizardSession)
			sessions.POST("/:id/prefill", s.PrefillWizardSession)
			sessions.POST("/:id/reset", s.ResetWizardSession)

			sessions.POST("/:id/domain/new", s.SelectNewDomain)
			sessions.POST("/:id/domain/existing", s.SelectExistingDomain)
			sessions.POST("/:id/domain/subdomain", s.SelectSubdomain)
		}

		domainRoutes := v1.Group("/domains")
		{
			domainRoutes.POST("/search", s.SearchDomains)
			domainRoutes.GET("/instructions", s.DomainInstructions)
		}

		v1.POST("/publish", s.Launch)

		sites := v1.Group("/sites")
		{
			sites.GET("", s.ListSites)
			sites.GET("/:id", s.GetSite)
			sites.GET("/:id/status", s.PublishStatus)
			sites.GET("/:id/preview", s.PreviewSite)
			sites.PUT("/:id/content", s.UpdateSiteContent)
			sites.DELETE("/:id", s.DeleteSite)
			sites.GET("/:id/leads", s.ListLeads)
		}

		v1.GET("/templates", s.ListTemplates)
	}
}

func (s *Server) registerPublicRoutes() {
	public := s.engine.Group("/public")
	{
		public.GET("/render", s.RenderSite)
		public.POST("/leads", s.CaptureLead)
	}
}
