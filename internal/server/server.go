package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	billingdomain "github.com/smallbiznis/parkwise/internal/billing/domain"
	"github.com/smallbiznis/parkwise/internal/clock"
	"github.com/smallbiznis/parkwise/internal/config"
	"github.com/smallbiznis/parkwise/internal/observability"
	obslogger "github.com/smallbiznis/parkwise/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/parkwise/internal/observability/metrics"
	obstracing "github.com/smallbiznis/parkwise/internal/observability/tracing"
	penaltydomain "github.com/smallbiznis/parkwise/internal/penalty/domain"
	standingdomain "github.com/smallbiznis/parkwise/internal/standing/domain"
	tariffdomain "github.com/smallbiznis/parkwise/internal/tariff/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log, obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, log, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", srv.Addr))
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
	engine     *gin.Engine
	clock      clock.Clock
	billingSvc billingdomain.Service
	penaltySvc penaltydomain.Service
	standing   standingdomain.Service
	tariffs    tariffdomain.Catalog
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Clock      clock.Clock
	BillingSvc billingdomain.Service
	PenaltySvc penaltydomain.Service
	Standing   standingdomain.Service
	Tariffs    tariffdomain.Catalog
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		clock:      p.Clock,
		billingSvc: p.BillingSvc,
		penaltySvc: p.PenaltySvc,
		standing:   p.Standing,
		tariffs:    p.Tariffs,
	}

	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/v1")

	// -------- Tariffs --------
	api.GET("/tariffs", s.ListTariffs)

	// -------- Bills --------
	api.POST("/bills/quote", s.QuoteBill)
	api.POST("/bills/settle", s.SettleBill)
	api.GET("/bills/:session_id", s.GetBill)

	// -------- Penalties --------
	api.POST("/penalties/quote", s.QuotePenalty)
	api.POST("/users/:id/penalties", s.RecordPenalty)
	api.GET("/users/:id/penalties", s.ListPenalties)
	api.GET("/users/:id/penalties/summary", s.GetPenaltySummary)

	// -------- Standing --------
	api.POST("/standing/evaluate", s.EvaluateStanding)
	api.GET("/users/:id/standing", s.GetUserStanding)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
