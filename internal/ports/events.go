package ports

import (
	"context"
	"map-distance-service/internal/domain"
)

// EventPublisher announces completed interactions to interested consumers.
type EventPublisher interface {
	PublishRouteCalculated(ctx context.Context, evt domain.RouteCalculated) error
}
