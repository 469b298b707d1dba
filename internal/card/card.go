package card

import (
	"errors"
	"time"

	"cardconjurer/internal/cardtext"
	"cardconjurer/internal/imagestore"
)

var (
	// ErrNotFound is returned when a card is not found.
	ErrNotFound = errors.New("card not found")
	// ErrSetNotFound is returned when a card refers to a missing set.
	ErrSetNotFound = errors.New("card set not found")
	// ErrInvalidCard is returned for saves without a set or front face.
	ErrInvalidCard = errors.New("invalid card")
)

// Card is one stored card. Image fields hold paths relative to the media
// root; an empty path means no image.
type Card struct {
	ID         int64
	SetID      int64
	Front      cardtext.Face
	Back       cardtext.Face
	FrontArt   string
	FrontImage string
	BackArt    string
	BackImage  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsDoubleFaced reports whether the card has a non-empty back face.
func (c Card) IsDoubleFaced() bool {
	return len(c.Back) > 0
}

// image returns a pointer to the path field for slot.
func (c *Card) image(slot imagestore.Slot) *string {
	switch slot {
	case imagestore.FrontArt:
		return &c.FrontArt
	case imagestore.FrontImage:
		return &c.FrontImage
	case imagestore.BackArt:
		return &c.BackArt
	case imagestore.BackImage:
		return &c.BackImage
	}
	return nil
}

// clearBackImages empties the back image fields and returns the paths
// they held.
func (c *Card) clearBackImages() []string {
	var paths []string
	for _, p := range []*string{&c.BackArt, &c.BackImage} {
		if *p != "" {
			paths = append(paths, *p)
			*p = ""
		}
	}
	return paths
}

// Images carries uploaded images of a save. Each value is a data URL to
// store, "" to remove the image, or anything else (typically the current
// URL echoed back) to keep it. A nil field keeps the image.
type Images struct {
	FrontArt   *string `json:"front_art,omitempty"`
	FrontImage *string `json:"front_image,omitempty"`
	BackArt    *string `json:"back_art,omitempty"`
	BackImage  *string `json:"back_image,omitempty"`
}

func (im Images) get(slot imagestore.Slot) *string {
	switch slot {
	case imagestore.FrontArt:
		return im.FrontArt
	case imagestore.FrontImage:
		return im.FrontImage
	case imagestore.BackArt:
		return im.BackArt
	case imagestore.BackImage:
		return im.BackImage
	}
	return nil
}

// Input is a full card save (create or PUT). A nil or empty back removes
// the back face.
type Input struct {
	SetID int64         `json:"set_id" validate:"required,gt=0"`
	Front cardtext.Face `json:"front" validate:"required"`
	Back  cardtext.Face `json:"back"`
	Images
}

// Patch is a partial card save (PATCH, or POST to an existing card).
// Absent fields are left unchanged; "back": {} removes the back face.
type Patch struct {
	SetID *int64         `json:"set_id" validate:"omitempty,gt=0"`
	Front cardtext.Face  `json:"front"`
	Back  *cardtext.Face `json:"back"`
	Images
}

// AsPatch converts a full save into a patch that replaces every field.
func (in Input) AsPatch() Patch {
	setID := in.SetID
	back := in.Back
	if back == nil {
		back = cardtext.Face{}
	}
	return Patch{SetID: &setID, Front: in.Front, Back: &back, Images: in.Images}
}
