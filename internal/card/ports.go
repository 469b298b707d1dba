package card

import (
	"context"

	"cardconjurer/internal/cardset"
	"cardconjurer/internal/imagestore"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=card

// Repository defines the contract for card storage.
type Repository interface {
	// Create inserts c and fills in its ID and timestamps.
	Create(ctx context.Context, c *Card) error
	// Update writes every column of c and refreshes UpdatedAt.
	Update(ctx context.Context, c *Card) error
	Get(ctx context.Context, id int64) (Card, error)
	ListBySet(ctx context.Context, setID int64) ([]Card, error)
	Delete(ctx context.Context, id int64) error
	// WithTx runs fn against a repository bound to one transaction.
	WithTx(ctx context.Context, fn func(Repository) error) error
}

// SetReader looks up the set a card belongs to.
type SetReader interface {
	Get(ctx context.Context, id int64) (cardset.Set, error)
}

// ImageStore stores card images.
type ImageStore interface {
	SaveCardImage(ctx context.Context, cardID int64, slot imagestore.Slot, img imagestore.DataURL) (string, error)
	Delete(ctx context.Context, path string) error
	DeleteCard(ctx context.Context, cardID int64) error
	URL(path string) string
}
