package ports

import (
	"context"

	"go.trai.ch/precache/internal/core/domain"
)

// Network performs live requests.
//
//go:generate go run go.uber.org/mock/mockgen -source=network.go -destination=mocks/mock_network.go -package=mocks
type Network interface {
	// Fetch performs req and returns the response, whatever its status.
	// It returns an error only when no response was received.
	Fetch(ctx context.Context, req *domain.Request) (*domain.Response, error)
}
