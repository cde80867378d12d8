package logging

import (
	"context"

	"go.uber.org/zap"
)

// LogRenderEvent records the outcome of a profile render.
//
// Args:
//   - username: The profile being rendered
//   - state: The render state ("loading", "ready" or "not_found")
//   - layout: The layout selected for the view, empty when none was rendered
//   - details: Optional additional details
func LogRenderEvent(ctx context.Context, username, state, layout string, details map[string]any) {
	fields := []zap.Field{
		zap.String("render.username", username),
		zap.String("render.state", state),
	}
	if layout != "" {
		fields = append(fields, zap.String("render.layout", layout))
	}
	if len(details) > 0 {
		fields = append(fields, zap.Any("render.details", details))
	}
	LoggerFromContext(ctx).Info("Render event", fields...)
}
