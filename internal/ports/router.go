package ports

import (
	"context"
	"map-distance-service/internal/domain"
)

// Contract for the remote routing endpoint.
type Router interface {
	// Return the path and distance between two coordinates for a travel mode.
	// Implementations return domain.ErrNoRoute when the service has no route.
	Route(ctx context.Context, start, end domain.Coordinates, mode domain.Mode) (domain.Route, error)
}
