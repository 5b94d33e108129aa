// Package server exposes the summarize pipeline over HTTP.
package server

import (
	"errors"
	"log"
	"strings"

	"github.com/AstaRoggers/yt-summarizer/internal/digest"
	"github.com/AstaRoggers/yt-summarizer/internal/ratelimit"
	"github.com/AstaRoggers/yt-summarizer/internal/search"
	"github.com/AstaRoggers/yt-summarizer/internal/summarize"
	"github.com/AstaRoggers/yt-summarizer/internal/tube"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

const DefaultPort = ":8080"

// Limiter is wired from main.
var Limiter ratelimit.Limiter

type SummarizeRequest struct {
	URL string `json:"url"`
}

type errorBody struct {
	Error string `json:"error"`
}

func New() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	// Any origin, common verbs. Also answers the OPTIONS preflight.
	app.Use(cors.New())

	app.Post("/api/summarize", handleSummarize)
	app.Get("/api/search", handleSearch)

	return app
}

func Start(port string) {
	log.Fatal(New().Listen(port))
}

// errorHandler converts every failure into the { "error": msg } JSON shape,
// nothing unstructured ever reaches the transport. Full detail is logged,
// the caller only gets the short message.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	if code >= fiber.StatusInternalServerError {
		log.Printf("[ERROR]: %s %s: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(errorBody{Error: message})
}

func handleSummarize(c *fiber.Ctx) error {
	var req SummarizeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if req.URL == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing url")
	}

	if !Limiter.Admit(clientKey(c)) {
		return fiber.NewError(fiber.StatusTooManyRequests, "Rate limit exceeded, try again later")
	}

	videoId, ok := tube.ExtractVideoID(req.URL)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid YouTube URL")
	}

	res, err := digest.Video(c.Context(), videoId)
	if err != nil {
		log.Printf("[ERROR]: summarizing %q: %v", videoId, err)
		return fiber.NewError(fiber.StatusInternalServerError, reason(err))
	}

	return c.JSON(res)
}

func handleSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	if len(query) < 3 {
		return fiber.NewError(
			fiber.StatusUnprocessableEntity,
			"Please type at least 3 characters",
		)
	}

	log.Printf("[INFO]: searching summaries for %q", query)
	res, err := search.Summaries(c.Context(), strings.Clone(query))
	if err != nil {
		log.Printf("[ERROR]: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "search failed")
	}

	return c.JSON(res)
}

// clientKey identifies the caller for rate limiting: the first forwarded
// address when behind a proxy, the transport address otherwise.
func clientKey(c *fiber.Ctx) string {
	if fwd := c.Get(fiber.HeaderXForwardedFor); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}

	return c.IP()
}

// reason maps pipeline errors to the short messages exposed to callers.
// The strings are stable on purpose, consumers pattern-match on them since
// every downstream failure shares the 500 status.
func reason(err error) string {
	var apiErr *summarize.APIError

	switch {
	case errors.Is(err, tube.ErrNotOk):
		return "could not reach video page"
	case errors.Is(err, tube.ErrToManyRequests):
		return "too many requests to YouTube, try again later"
	case errors.Is(err, tube.ErrNoCaptions):
		return "no captions available for this video"
	case errors.Is(err, tube.ErrNoTrack):
		return "no suitable caption track"
	case errors.Is(err, tube.ErrTooShort):
		return "transcript is empty or too short"
	case errors.Is(err, summarize.ErrNoKey):
		return "GEMINI_API_KEY is not set"
	case errors.Is(err, summarize.ErrNotJSON):
		return "model did not return parseable JSON"
	case errors.As(err, &apiErr):
		return apiErr.Message
	}

	return "failed to summarize video"
}
