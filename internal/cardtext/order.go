package cardtext

import (
	"strings"
)

// OrderKey sorts cards into canonical set order: non-tokens before tokens,
// then WUBRG, multicolour, colourless, then non-lands before lands, then
// name without a leading article.
type OrderKey struct {
	TokenRank  int    `json:"token_rank"`
	ColourRank Colour `json:"colour_rank"`
	LandRank   int    `json:"land_rank"`
	Name       string `json:"name"`
}

// SetOrderKey computes the set order key for a front face. name is the
// display name of the card (the caller applies any fallback).
func SetOrderKey(face Face, name string) OrderKey {
	class := Classify(face)
	key := OrderKey{
		TokenRank:  1,
		ColourRank: ColourRank(Colours(Text(face, "mana"))),
		LandRank:   1,
		Name:       SortName(name),
	}
	if class.IsToken {
		key.TokenRank = 2
	}
	if class.IsLand {
		key.LandRank = 2
	}
	return key
}

// SortName lowercases name and drops a leading "a ", "an " or "the ".
// The articles are checked in that order, each against the result of the
// previous check.
func SortName(name string) string {
	name = strings.ToLower(name)
	for _, prefix := range []string{"a ", "an ", "the "} {
		name = strings.TrimPrefix(name, prefix)
	}
	return name
}

// Less reports whether k sorts before o.
func (k OrderKey) Less(o OrderKey) bool {
	if k.TokenRank != o.TokenRank {
		return k.TokenRank < o.TokenRank
	}
	if k.ColourRank != o.ColourRank {
		return k.ColourRank < o.ColourRank
	}
	if k.LandRank != o.LandRank {
		return k.LandRank < o.LandRank
	}
	return k.Name < o.Name
}
