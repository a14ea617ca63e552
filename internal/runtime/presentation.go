package runtime

import (
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/google/uuid"
)

// PresentationItem is a navigation stack presented on top of a coordinator.
type PresentationItem struct {
	ID           string
	Coordinator  *Coordinator
	Presentation domain.Presentation
	IsModal      bool
	OnDismiss    func()
}

func newPresentationItem(child *Coordinator, action domain.Action) *PresentationItem {
	return &PresentationItem{
		ID:           uuid.NewString(),
		Coordinator:  child,
		Presentation: action.Presentation,
		IsModal:      action.IsModal,
		OnDismiss:    action.OnDismiss,
	}
}
