package board

import (
	"context"

	"github.com/fleetyard/dispatchboard/core/model"
	"github.com/fleetyard/dispatchboard/core/orders"
)

// Provider is the remote data provider backing the board. Any error means
// the remote state is unchanged and the board must not mutate locally.
type Provider interface {
	FetchTrucks(ctx context.Context) ([]model.Truck, error)
	FetchOrders(ctx context.Context, f orders.Filter) ([]model.Order, error)
	PersistAssignment(ctx context.Context, orderID, truckID, date string) error
	PersistUnassignment(ctx context.Context, orderID string) error
}
