package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finsent/newsradar/internal/pipeline"
	"github.com/finsent/newsradar/internal/store"
	"github.com/finsent/newsradar/pkg/models"
)

// PipelineControl is the controller surface the API drives.
type PipelineControl interface {
	Trigger(opts pipeline.RunOptions) error
	Stop() error
	Status() models.PipelineStatus
}

// Scheduler reschedules the daily pipeline trigger.
type Scheduler interface {
	Reschedule(hhmm string) error
}

// Summarizer produces the structured per-entity summary.
type Summarizer interface {
	Summarize(ctx context.Context, entityName string, reasons []string) (*models.EntitySummary, error)
}

// ScraperNames lists the registered scraper source names.
type ScraperNames interface {
	Names() []string
}

// Server is the HTTP API over the pipeline and the query store.
type Server struct {
	controller PipelineControl
	store      *store.Store
	scrapers   ScraperNames
	scheduler  Scheduler
	summarizer Summarizer
	health     func() error

	httpServer *http.Server
}

// NewServer wires the API server. scheduler, summarizer and health may be
// nil; the scheduler and summarizer endpoints then answer 503, the health
// endpoint reports only liveness.
func NewServer(port int, controller PipelineControl, st *store.Store, scrapers ScraperNames, scheduler Scheduler, summarizer Summarizer, health func() error) *Server {
	s := &Server{
		controller: controller,
		store:      st,
		scrapers:   scrapers,
		scheduler:  scheduler,
		summarizer: summarizer,
		health:     health,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), corsMiddleware())

	s.routes(router)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) routes(router *gin.Engine) {
	api := router.Group("/api")

	api.GET("/health", s.handleHealth)

	p := api.Group("/pipeline")
	p.POST("/trigger", s.handleTrigger)
	p.POST("/stop", s.handleStop)
	p.GET("/status", s.handleStatus)
	p.GET("/status/ws", s.handleStatusWS)
	p.GET("/last_run", s.handleLastRun)
	p.POST("/schedule", s.handleSchedule)

	api.GET("/scrapers", s.handleScrapers)
	api.GET("/articles", s.handleArticles)
	api.GET("/entities", s.handleEntities)
	api.GET("/entities/summary", s.handleEntitySummary)
	api.GET("/top_entities", s.handleTopEntities)
	api.GET("/sentiment_over_time", s.handleSentimentOverTime)
	api.GET("/dashboard_stats", s.handleDashboardStats)
	api.GET("/entity_articles_by_sentiment", s.handleEntityArticles)
	api.GET("/usage_stats", s.handleUsageStats)
}

// Run serves until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// corsMiddleware allows any origin; the API carries no credentials.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
