package ports

import (
	"context"
	"map-distance-service/internal/domain"
)

// Locator yields the user's current position.
// It fails with domain.ErrLocationUnsupported or domain.ErrLocationUnavailable.
type Locator interface {
	CurrentPosition(ctx context.Context) (domain.Coordinates, error)
}

// LocatorFunc adapts a function to the Locator interface.
type LocatorFunc func(ctx context.Context) (domain.Coordinates, error)

func (f LocatorFunc) CurrentPosition(ctx context.Context) (domain.Coordinates, error) {
	return f(ctx)
}
