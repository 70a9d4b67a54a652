// Package api serves players' Wordle stats as read-only JSON.
package api

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/wordlestats/wordlebot/wordlebot/config"
	"github.com/wordlestats/wordlebot/wordlebot/tracker"
	"github.com/wordlestats/wordlebot/wordlebot/wordle"
)

type Config struct {
	Enabled      bool   `toml:"enabled"`
	Address      string `toml:"address"`
	AllowOrigins string `toml:"allow_origins"`
}

// APIResponse is the envelope of every response.
type APIResponse struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Error     *APIError `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Server struct {
	app     *fiber.App
	tracker *tracker.Tracker
	address string
}

func New(t *tracker.Tracker, cfg Config) *Server {
	s := &Server{tracker: t, address: cfg.Address}

	app := fiber.New(fiber.Config{
		AppName:               "Wordle Stats API",
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(loggingMiddleware())
	if cfg.AllowOrigins != "" {
		app.Use(cors.New(cors.Config{AllowOrigins: cfg.AllowOrigins, AllowMethods: "GET"}))
	}

	api := app.Group("/api")
	api.Get("/health", s.health)
	api.Get("/leaderboard", s.leaderboard)
	api.Get("/players/:id/stats", s.stats)
	api.Get("/players/:id/weekly", s.weekly)
	api.Get("/players/:id/results/:game", s.result)

	s.app = app
	return s
}

func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks until the server stops.
func (s *Server) Listen() error {
	slog.Info("Starting stats API",
		slog.String("type", "sys"),
		slog.String("address", s.address))
	return s.app.Listen(s.address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func queryContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), config.DefaultQueryTimeout)
}

func sendSuccess(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(APIResponse{Success: true, Data: data, Timestamp: time.Now().UTC()})
}

func sendError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(APIResponse{
		Error:     &APIError{Code: code, Message: message},
		Timestamp: time.Now().UTC(),
	})
}

func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return sendError(c, fe.Code, strconv.Itoa(fe.Code), fe.Message)
	}
	slog.Error("API request failed",
		slog.String("type", "error"),
		slog.String("path", c.Path()),
		slog.Any("error", err))
	return sendError(c, fiber.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An error occurred while processing your request.")
}

func loggingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		slog.Debug("API request",
			slog.String("type", "sys"),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", c.Response().StatusCode()),
			slog.Duration("took", time.Since(start)))
		return err
	}
}

func (s *Server) health(c *fiber.Ctx) error {
	return sendSuccess(c, fiber.Map{"status": "ok"})
}

type standing struct {
	Rank  int           `json:"rank"`
	User  string        `json:"user"`
	Stats *wordle.Stats `json:"stats"`
}

func (s *Server) leaderboard(c *fiber.Ctx) error {
	ctx, cancel := queryContext(c)
	defer cancel()

	standings, err := s.tracker.Leaderboard(ctx)
	if err != nil {
		return err
	}
	out := make([]standing, len(standings))
	for i, st := range standings {
		out[i] = standing{Rank: i + 1, User: st.User, Stats: st.Stats}
	}
	return sendSuccess(c, out)
}

func (s *Server) stats(c *fiber.Ctx) error {
	ctx, cancel := queryContext(c)
	defer cancel()

	stats, err := s.tracker.Stats(ctx, c.Params("id"))
	if err != nil {
		return err
	}
	return sendSuccess(c, stats)
}

func (s *Server) weekly(c *fiber.Ctx) error {
	ctx, cancel := queryContext(c)
	defer cancel()

	results, err := s.tracker.Weekly(ctx, c.Params("id"))
	if err != nil {
		return err
	}
	return sendSuccess(c, results)
}

func (s *Server) result(c *fiber.Ctx) error {
	game, err := c.ParamsInt("game")
	if err != nil || game <= 0 {
		return sendError(c, fiber.StatusBadRequest, "BAD_REQUEST", "game must be a positive number")
	}

	ctx, cancel := queryContext(c)
	defer cancel()

	result, err := s.tracker.Result(ctx, game, c.Params("id"))
	if err != nil {
		return err
	}
	if result.IsEmpty() {
		return sendError(c, fiber.StatusNotFound, "NOT_FOUND", "no result recorded for that game")
	}
	return sendSuccess(c, result)
}
