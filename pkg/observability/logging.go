package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// LoggingHooks logs navigation events at debug level and requirement events
// at info level. Failed requirements are logged as warnings.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNavigation: func(ctx context.Context, e *domain.NavigationEvent) {
			logger.DebugContext(ctx, string(e.Type),
				"coordinator", e.CoordinatorID,
				"item", e.ItemID,
				"destination", e.Destination,
				"depth", e.Depth,
			)
		},
		OnRequirement: func(ctx context.Context, e *domain.RequirementEvent) {
			level := slog.LevelInfo
			if e.Type == domain.EventRequirementFailed {
				level = slog.LevelWarn
			}
			logger.Log(ctx, level, string(e.Type),
				"coordinator", e.CoordinatorID,
				"item", e.ItemID,
				"requirement", e.Requirement,
				"reason", e.Reason,
			)
		},
	}
}
