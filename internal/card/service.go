package card

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"go.uber.org/zap"

	"cardconjurer/internal/cardset"
	"cardconjurer/internal/cardtext"
	"cardconjurer/internal/imagestore"
)

// Service implements card saves, including image uploads.
type Service struct {
	repo   Repository
	sets   SetReader
	images ImageStore
	log    *zap.Logger
}

func NewService(repo Repository, sets SetReader, images ImageStore, log *zap.Logger) *Service {
	return &Service{repo: repo, sets: sets, images: images, log: log}
}

// Get returns a card by id.
func (s *Service) Get(ctx context.Context, id int64) (Card, error) {
	return s.repo.Get(ctx, id)
}

// ListBySet returns the set and its cards in set order.
func (s *Service) ListBySet(ctx context.Context, setID int64) (cardset.Set, []Card, error) {
	set, err := s.sets.Get(ctx, setID)
	if err != nil {
		return cardset.Set{}, nil, err
	}
	cards, err := s.repo.ListBySet(ctx, setID)
	if err != nil {
		return cardset.Set{}, nil, fmt.Errorf("list cards of set %d: %w", setID, err)
	}
	SortBySetOrder(cards)
	return set, cards, nil
}

// SortBySetOrder sorts cards in place by their set order key. Cards with
// equal keys keep their relative order.
func SortBySetOrder(cards []Card) {
	type keyed struct {
		card Card
		key  cardtext.OrderKey
	}
	items := make([]keyed, len(cards))
	for i, c := range cards {
		items[i] = keyed{card: c, key: cardtext.SetOrderKey(c.Front, displayName(c.Front))}
	}
	slices.SortStableFunc(items, func(a, b keyed) int {
		switch {
		case a.key.Less(b.key):
			return -1
		case b.key.Less(a.key):
			return 1
		}
		return 0
	})
	for i := range items {
		cards[i] = items[i].card
	}
}

// Create stores a new card. Images need the card id for their paths, so
// a card with uploads is inserted first and updated with the stored paths
// in the same transaction.
func (s *Service) Create(ctx context.Context, in Input) (Card, error) {
	if in.SetID <= 0 || len(in.Front) == 0 {
		return Card{}, fmt.Errorf("%w: set and front face are required", ErrInvalidCard)
	}

	c := Card{SetID: in.SetID, Front: cloneFace(in.Front), Back: cloneFace(in.Back)}
	err := s.repo.WithTx(ctx, func(repo Repository) error {
		if err := repo.Create(ctx, &c); err != nil {
			return err
		}
		if !hasUploads(c, in.Images) {
			return nil
		}
		if err := s.storeUploads(ctx, &c, in.Images); err != nil {
			return err
		}
		return repo.Update(ctx, &c)
	})
	if err != nil {
		if c.ID != 0 {
			s.discardImages(c.ID)
		}
		return Card{}, fmt.Errorf("create card: %w", err)
	}

	s.log.Info("card created",
		zap.Int64("card_id", c.ID),
		zap.Int64("set_id", c.SetID),
		zap.String("name", displayName(c.Front)),
	)
	return c, nil
}

// Update applies a full or partial save to an existing card.
// Dropping the back face also drops its art and rendered image.
func (s *Service) Update(ctx context.Context, id int64, p Patch) (Card, error) {
	var (
		c     Card
		stale []string
	)
	err := s.repo.WithTx(ctx, func(repo Repository) error {
		var err error
		c, err = repo.Get(ctx, id)
		if err != nil {
			return err
		}

		if p.SetID != nil {
			c.SetID = *p.SetID
		}
		if p.Front != nil {
			c.Front = cloneFace(p.Front)
		}
		if p.Back != nil {
			c.Back = cloneFace(*p.Back)
		}
		if len(c.Front) == 0 || c.SetID <= 0 {
			return fmt.Errorf("%w: set and front face are required", ErrInvalidCard)
		}

		if err := s.storeUploads(ctx, &c, p.Images); err != nil {
			return err
		}
		if !c.IsDoubleFaced() {
			stale = c.clearBackImages()
		}
		return repo.Update(ctx, &c)
	})
	if err != nil {
		return Card{}, fmt.Errorf("update card %d: %w", id, err)
	}
	s.removeImages(c.ID, stale)
	return c, nil
}

// Delete removes a card and its stored images.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.discardImages(id)
	return nil
}

// ImageURL is the public URL of a stored image path.
func (s *Service) ImageURL(path string) string {
	return s.images.URL(path)
}

func (s *Service) removeImages(id int64, paths []string) {
	for _, path := range paths {
		if err := s.images.Delete(context.Background(), path); err != nil {
			s.log.Warn("card image not removed", zap.Int64("card_id", id), zap.String("path", path), zap.Error(err))
		}
	}
}

func (s *Service) discardImages(id int64) {
	if err := s.images.DeleteCard(context.Background(), id); err != nil {
		s.log.Warn("card images not removed", zap.Int64("card_id", id), zap.Error(err))
	}
}

var artSlots = []struct {
	slot imagestore.Slot
	face func(*Card) cardtext.Face
}{
	{imagestore.FrontArt, func(c *Card) cardtext.Face { return c.Front }},
	{imagestore.BackArt, func(c *Card) cardtext.Face { return c.Back }},
}

func hasUploads(c Card, im Images) bool {
	for _, slot := range imagestore.Slots {
		if v := im.get(slot); v != nil && imagestore.IsDataURL(*v) {
			return true
		}
	}
	for _, a := range artSlots {
		if src, _ := a.face(&c)["artSource"].(string); imagestore.IsDataURL(src) {
			return true
		}
	}
	return false
}

// storeUploads writes uploaded images for c, which must already have an
// id. A data URL in a face's artSource is stored as that face's art and
// replaced by the stored image URL.
func (s *Service) storeUploads(ctx context.Context, c *Card, im Images) error {
	for _, slot := range imagestore.Slots {
		v := im.get(slot)
		switch {
		case v == nil:
		case *v == "":
			*c.image(slot) = ""
		case imagestore.IsDataURL(*v):
			path, err := s.save(ctx, c.ID, slot, *v)
			if err != nil {
				return err
			}
			*c.image(slot) = path
		}
	}

	for _, a := range artSlots {
		face := a.face(c)
		src, _ := face["artSource"].(string)
		if !imagestore.IsDataURL(src) {
			continue
		}
		path, err := s.save(ctx, c.ID, a.slot, src)
		if err != nil {
			return err
		}
		*c.image(a.slot) = path
		face["artSource"] = s.images.URL(path)
	}
	return nil
}

func (s *Service) save(ctx context.Context, id int64, slot imagestore.Slot, dataURL string) (string, error) {
	img, err := imagestore.DecodeDataURL(dataURL)
	if err != nil {
		return "", fmt.Errorf("%s: %w", slot, err)
	}
	if _, err := imagestore.CheckImage(img); err != nil {
		return "", fmt.Errorf("%s: %w", slot, err)
	}
	path, err := s.images.SaveCardImage(ctx, id, slot, img)
	if err != nil {
		return "", fmt.Errorf("store %s: %w", slot, err)
	}
	return path, nil
}

// cloneFace copies the top level of a face so artSource can be rewritten
// without touching the caller's map. Empty faces become nil.
func cloneFace(f cardtext.Face) cardtext.Face {
	if len(f) == 0 {
		return nil
	}
	return maps.Clone(f)
}

// ViewURL is the API location of a card.
func ViewURL(id int64) string {
	return "/v1/cards/" + strconv.FormatInt(id, 10)
}

// IsClientError reports whether err was caused by the request rather than
// the server.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidCard) ||
		errors.Is(err, ErrSetNotFound) ||
		errors.Is(err, imagestore.ErrInvalidDataURL)
}
