package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/m3rciful/moviebot/core/logger"
	tghelpers "github.com/m3rciful/moviebot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// handleWithSummary tags the update context with name, runs fn and logs one
// handler.handled line with its outcome.
func handleWithSummary(c tele.Context, name string, fn func() error) error {
	start := time.Now()
	ctx := tghelpers.WithHandler(c, name)
	err := fn()

	level := slog.LevelDebug
	attrs := []slog.Attr{
		slog.String("status", logger.Status(err)),
		slog.Duration("duration", time.Since(start)),
	}
	if err != nil {
		level = slog.LevelError
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("err_code", deriveErrorCode(err)),
		)
	}
	logger.LogEvent(ctx, logger.Component("tg"), level, "handler.handled", attrs...)
	return err
}

// normalizeHandlerName turns "/Top Rated" into "top_rated".
func normalizeHandlerName(name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), "/")
	if name == "" {
		return "unknown"
	}
	return strings.ToLower(strings.ReplaceAll(name, " ", "_"))
}

// deriveErrorCode prefers an explicit Code() and falls back to the error's type name.
func deriveErrorCode(err error) string {
	type coder interface{ Code() string }
	var c coder
	switch {
	case err == nil:
		return ""
	case errors.As(err, &c) && strings.TrimSpace(c.Code()) != "":
		return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(c.Code()), " ", "_"))
	case errors.Is(err, context.Canceled):
		return "CANCELED"
	case errors.Is(err, context.DeadlineExceeded):
		return "DEADLINE_EXCEEDED"
	}
	name := strings.TrimLeft(fmt.Sprintf("%T", err), "*")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return "UNKNOWN_ERROR"
	}
	return strings.ToUpper(name)
}
