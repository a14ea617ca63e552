package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventItemPushed        EventType = "item_pushed"
	EventItemPopped        EventType = "item_popped"
	EventPresented         EventType = "presented"
	EventDismissed         EventType = "dismissed"
	EventItemBlocked       EventType = "item_blocked"
	EventItemUnblocked     EventType = "item_unblocked"
	EventAlertShown        EventType = "alert_shown"
	EventRequirementFailed EventType = "requirement_failed"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp     time.Time `json:"timestamp"`
	Type          EventType `json:"type"`
	CoordinatorID string    `json:"coordinator_id"`
}

// NavigationEvent reports a change of a coordinator's path or presentation.
type NavigationEvent struct {
	EventBase
	ItemID      string    `json:"item_id,omitempty"`
	Destination string    `json:"destination,omitempty"`
	Depth       int       `json:"depth"`
	Reference   Reference `json:"reference,omitempty"`
}

// RequirementEvent reports blocking, unblocking or a failed resolution.
type RequirementEvent struct {
	EventBase
	ItemID      string                `json:"item_id,omitempty"`
	Requirement RequirementIdentifier `json:"requirement"`
	Reason      string                `json:"reason,omitempty"`
}

// LifecycleHooks defines callbacks for coordinator observability.
type LifecycleHooks struct {
	OnNavigation  func(context.Context, *NavigationEvent)
	OnRequirement func(context.Context, *RequirementEvent)
}

// MergeHooks chains several hook sets, calling them in order.
func MergeHooks(hooks ...LifecycleHooks) LifecycleHooks {
	var merged LifecycleHooks
	for _, h := range hooks {
		h := h
		if h.OnNavigation != nil {
			prev := merged.OnNavigation
			merged.OnNavigation = func(ctx context.Context, e *NavigationEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnNavigation(ctx, e)
			}
		}
		if h.OnRequirement != nil {
			prev := merged.OnRequirement
			merged.OnRequirement = func(ctx context.Context, e *RequirementEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnRequirement(ctx, e)
			}
		}
	}
	return merged
}
