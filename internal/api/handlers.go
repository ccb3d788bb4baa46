package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/finsent/newsradar/internal/pipeline"
	"github.com/finsent/newsradar/internal/store"
	"github.com/finsent/newsradar/pkg/logger"
)

// scheduleTimeKey is the app_config key holding the daily trigger time.
const scheduleTimeKey = "schedule_time"

func (s *Server) handleHealth(c *gin.Context) {
	if s.health != nil {
		if err := s.health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type triggerRequest struct {
	Provider  string   `json:"provider"`
	ModelName string   `json:"model_name"`
	APIKey    string   `json:"api_key"`
	Scrapers  []string `json:"scrapers"`
}

func (s *Server) handleTrigger(c *gin.Context) {
	var req triggerRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	err := s.controller.Trigger(pipeline.RunOptions{
		Provider:  req.Provider,
		ModelName: req.ModelName,
		APIKey:    req.APIKey,
		Scrapers:  req.Scrapers,
	})
	if errors.Is(err, pipeline.ErrAlreadyRunning) {
		c.JSON(http.StatusConflict, gin.H{"error": "a pipeline run is already in progress"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "pipeline run started"})
}

func (s *Server) handleStop(c *gin.Context) {
	err := s.controller.Stop()
	if errors.Is(err, pipeline.ErrNotRunning) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no pipeline run is in progress"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "stop requested"})
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.controller.Status())
}

func (s *Server) handleLastRun(c *gin.Context) {
	run, err := s.store.LastPipelineRun(c.Request.Context())
	if err != nil {
		s.internalError(c, "load last run", err)
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no pipeline run recorded yet"})
		return
	}
	c.JSON(http.StatusOK, run)
}

type scheduleRequest struct {
	ScheduleTime string `json:"schedule_time"`
}

func (s *Server) handleSchedule(c *gin.Context) {
	if s.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scheduler is not configured"})
		return
	}

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if _, err := time.Parse("15:04", req.ScheduleTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "schedule_time must be HH:MM"})
		return
	}

	if err := s.store.SetConfigValue(c.Request.Context(), scheduleTimeKey, req.ScheduleTime); err != nil {
		s.internalError(c, "persist schedule", err)
		return
	}
	if err := s.scheduler.Reschedule(req.ScheduleTime); err != nil {
		s.internalError(c, "reschedule", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "schedule updated", "schedule_time": req.ScheduleTime})
}

func (s *Server) handleScrapers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"scrapers": s.scrapers.Names()})
}

func (s *Server) handleArticles(c *gin.Context) {
	filter := store.ArticleFilter{
		EntityName:         c.Query("entity_name"),
		EntityType:         c.Query("entity_type"),
		FinancialSentiment: c.Query("financial_sentiment"),
		OverallSentiment:   c.Query("overall_sentiment"),
		Limit:              queryUint(c, "limit", 50),
	}

	articles, err := s.store.FilterArticles(c.Request.Context(), filter)
	if err != nil {
		s.internalError(c, "filter articles", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

func (s *Server) handleEntities(c *gin.Context) {
	entities, err := s.store.DistinctEntities(c.Request.Context())
	if err != nil {
		s.internalError(c, "list entities", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entities": entities})
}

func (s *Server) handleEntitySummary(c *gin.Context) {
	if s.summarizer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "summarizer is not configured"})
		return
	}

	entityName := c.Query("entity_name")
	if entityName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entity_name is required"})
		return
	}

	reasonings, err := s.store.EntityReasonings(c.Request.Context(), entityName)
	if err != nil {
		s.internalError(c, "load reasonings", err)
		return
	}
	if len(reasonings) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data for entity"})
		return
	}

	reasons := make([]string, 0, len(reasonings))
	for _, r := range reasonings {
		reasons = append(reasons, r.Reasoning)
	}

	summary, err := s.summarizer.Summarize(c.Request.Context(), entityName, reasons)
	if err != nil {
		s.internalError(c, "summarize entity", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entity_name": entityName, "summary": summary})
}

func (s *Server) handleTopEntities(c *gin.Context) {
	axis := c.DefaultQuery("axis", "overall")
	label := c.DefaultQuery("sentiment", "positive")
	ascending := c.Query("order") == "asc"

	counts, err := s.store.TopEntities(c.Request.Context(), axis, label, ascending, queryUint(c, "limit", 10))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entities": counts})
}

func (s *Server) handleSentimentOverTime(c *gin.Context) {
	entityName := c.Query("entity_name")
	if entityName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entity_name is required"})
		return
	}

	points, err := s.store.SentimentOverTime(c.Request.Context(), entityName)
	if err != nil {
		s.internalError(c, "sentiment over time", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entity_name": entityName, "points": points})
}

func (s *Server) handleDashboardStats(c *gin.Context) {
	stats, err := s.store.DashboardStats(c.Request.Context())
	if err != nil {
		s.internalError(c, "dashboard stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleEntityArticles(c *gin.Context) {
	entityName := c.Query("entity_name")
	if entityName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entity_name is required"})
		return
	}

	buckets, err := s.store.EntityArticlesBySentiment(c.Request.Context(), entityName)
	if err != nil {
		s.internalError(c, "entity articles", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entity_name": entityName, "articles": buckets})
}

func (s *Server) handleUsageStats(c *gin.Context) {
	if c.Query("summarize") == "true" {
		summary, err := s.store.UsageSummary(c.Request.Context())
		if err != nil {
			s.internalError(c, "usage summary", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"providers": summary})
		return
	}

	logs, err := s.store.UsageLogs(c.Request.Context(), queryUint(c, "limit", 100))
	if err != nil {
		s.internalError(c, "usage logs", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"usage": logs})
}

func (s *Server) internalError(c *gin.Context, op string, err error) {
	logger.Error("api request failed", zap.String("op", op), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func queryUint(c *gin.Context, name string, fallback uint64) uint64 {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return fallback
	}
	return v
}
