package ports

import (
	"context"
	"map-distance-service/internal/domain"
)

// Contract for the remote search endpoint.
type Geocoder interface {
	// Return place suggestions for a free-text query, ordered by relevance.
	// An empty slice with a nil error means the service found nothing.
	Search(ctx context.Context, query string) ([]domain.Place, error)
}
