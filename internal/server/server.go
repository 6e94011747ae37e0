package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/agenthands/influence/internal/config"
	"github.com/agenthands/influence/internal/core"
	"github.com/agenthands/influence/internal/core/model"
	"github.com/agenthands/influence/internal/driver"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type Server struct {
	Engine *core.Engine
	Config *config.Config
	Log    *zap.SugaredLogger
}

func NewServer(engine *core.Engine, cfg *config.Config, log *zap.SugaredLogger) *Server {
	return &Server{
		Engine: engine,
		Config: cfg,
		Log:    log,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), AccessLog(s.Log), gin.Recovery())

	r.GET("/healthz", s.Health)

	api := r.Group("/api")
	api.GET("/datasets", s.Datasets)
	api.GET("/data", s.Data)
	api.GET("/stats", s.Stats)

	return r
}

// Handler is the router wrapped for cross-origin use by the browser renderer.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.Config.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{RequestIDHeader},
	})
	return c.Handler(s.SetupRouter())
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) Datasets(c *gin.Context) {
	datasets, err := s.Engine.Datasets(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	if datasets == nil {
		c.JSON(http.StatusOK, []any{})
		return
	}
	c.JSON(http.StatusOK, datasets)
}

type DatasetInfo struct {
	Filename    string `json:"filename"`
	DisplayName string `json:"display_name"`
}

type DataResponse struct {
	*model.Graph
	DatasetInfo DatasetInfo `json:"dataset_info"`
}

func (s *Server) Data(c *gin.Context) {
	maxEdges, err := s.maxEdges(c.Query("max_edges"))
	if err != nil {
		s.fail(c, err)
		return
	}
	deHair, err := parseBool("dehair", c.Query("dehair"))
	if err != nil {
		s.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	info, err := s.dataset(c)
	if err != nil {
		s.fail(c, err)
		return
	}

	g, err := s.Engine.LoadGraph(ctx, info.Filename, maxEdges, deHair)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, DataResponse{Graph: g, DatasetInfo: info})
}

func (s *Server) Stats(c *gin.Context) {
	info, err := s.dataset(c)
	if err != nil {
		s.fail(c, err)
		return
	}

	stats, err := s.Engine.Stats(c.Request.Context(), info.Filename)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// dataset resolves the "dataset" query parameter, defaulting to the first dataset.
func (s *Server) dataset(c *gin.Context) (DatasetInfo, error) {
	name := c.Query("dataset")
	if name == "" {
		ds, err := s.Engine.DefaultDataset(c.Request.Context())
		if err != nil {
			return DatasetInfo{}, err
		}
		return DatasetInfo{Filename: ds.Filename, DisplayName: ds.DisplayName}, nil
	}
	return DatasetInfo{Filename: name, DisplayName: driver.DisplayName(name)}, nil
}

func (s *Server) maxEdges(raw string) (int, error) {
	limit := s.Config.Graph.MaxEdgesLimit
	if raw == "" {
		return s.Config.Graph.DefaultMaxEdges, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > limit {
		return 0, invalidArgument("max_edges must be an integer in 1..%d, got %q", limit, raw)
	}
	return n, nil
}

func parseBool(name, raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, invalidArgument("%s must be a boolean, got %q", name, raw)
	}
	return v, nil
}

func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrDatasetNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		s.Log.Errorw("Request failed", "path", c.Request.URL.Path, "request_id", c.GetString(requestIDKey), "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", model.ErrInvalidArgument, fmt.Sprintf(format, args...))
}
