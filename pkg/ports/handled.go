package ports

import (
	"context"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// HandledDestination performs a custom navigation instead of showing a view.
// Mappers return it for destinations such as tab switches.
type HandledDestination struct {
	domain.ViewDefaults
	Name string
	// Execute runs the navigation and returns the navigator that is active afterwards.
	Execute func(ctx context.Context) (Navigator, error)
}

func (h HandledDestination) DestinationName() string {
	if h.Name == "" {
		return "handled"
	}
	return "handled:" + h.Name
}
