package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vowsuite/vowsuite/internal/ceremony"
	ceremonydomain "github.com/vowsuite/vowsuite/internal/ceremony/domain"
	"github.com/vowsuite/vowsuite/internal/clock"
	"github.com/vowsuite/vowsuite/internal/config"
	"github.com/vowsuite/vowsuite/internal/event"
	eventdomain "github.com/vowsuite/vowsuite/internal/event/domain"
	"github.com/vowsuite/vowsuite/internal/guest"
	guestdomain "github.com/vowsuite/vowsuite/internal/guest/domain"
	"github.com/vowsuite/vowsuite/internal/invite"
	"github.com/vowsuite/vowsuite/internal/migration"
	"github.com/vowsuite/vowsuite/internal/notification"
	"github.com/vowsuite/vowsuite/internal/oauth"
	"github.com/vowsuite/vowsuite/internal/observability"
	"github.com/vowsuite/vowsuite/internal/rsvp"
	"github.com/vowsuite/vowsuite/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var Module = fx.Module("http.server",
	config.Module,
	clock.Module,
	observability.Module,
	db.Module,
	migration.Module,
	event.Module,
	guest.Module,
	ceremony.Module,
	notification.Module,
	oauth.Module,
	rsvp.Module,
	invite.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *observability.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.LoggingMiddleware(log))
	r.Use(observability.TracingMiddleware())
	r.Use(observability.MetricsMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// registerGin depends on the tracer provider so the global propagators are
// installed before the first request hits the tracing middleware.
func registerGin(log *zap.Logger, httpMetrics *observability.HTTPMetrics, _ *sdktrace.TracerProvider) *gin.Engine {
	return NewEngine(log, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
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
	log         *zap.Logger
	eventSvc    eventdomain.Service
	guestSvc    guestdomain.Service
	ceremonySvc ceremonydomain.Service
	rsvpSvc     rsvp.Service
	inviteSvc   invite.Service
	oauthSvc    oauth.Service
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Log         *zap.Logger
	EventSvc    eventdomain.Service
	GuestSvc    guestdomain.Service
	CeremonySvc ceremonydomain.Service
	RSVPSvc     rsvp.Service
	InviteSvc   invite.Service
	OAuthSvc    oauth.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		log:         p.Log.Named("server"),
		eventSvc:    p.EventSvc,
		guestSvc:    p.GuestSvc,
		ceremonySvc: p.CeremonySvc,
		rsvpSvc:     p.RSVPSvc,
		inviteSvc:   p.InviteSvc,
		oauthSvc:    p.OAuthSvc,
	}

	s.registerRSVPRoutes()
	s.registerOAuthRoutes()
	s.registerEventRoutes()
	s.registerGuestRoutes()
	s.registerCeremonyRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}
