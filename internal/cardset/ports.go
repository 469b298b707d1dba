package cardset

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=cardset

// Repository defines the contract for set storage.
type Repository interface {
	List(ctx context.Context) ([]Set, error)
	Get(ctx context.Context, id int64) (Set, error)
	Create(ctx context.Context, in Input) (int64, error)
	Update(ctx context.Context, id int64, in Input) error
	Delete(ctx context.Context, id int64) error
}
