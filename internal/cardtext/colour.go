package cardtext

import (
	"strings"
)

// Colour ranks card colours in WUBRG order, followed by multicolour and
// colourless.
type Colour int

const (
	White Colour = iota + 1
	Blue
	Black
	Red
	Green
	Multicolor
	Colorless
)

var colourNames = map[Colour]string{
	White:      "WHITE",
	Blue:       "BLUE",
	Black:      "BLACK",
	Red:        "RED",
	Green:      "GREEN",
	Multicolor: "MULTICOLOR",
	Colorless:  "COLORLESS",
}

func (c Colour) String() string {
	if s, ok := colourNames[c]; ok {
		return s
	}
	return "UNKNOWN"
}

// MarshalText renders the colour by name in JSON output.
func (c Colour) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

var manaLetters = []struct {
	code   string
	colour Colour
}{
	{"W", White},
	{"U", Blue},
	{"B", Black},
	{"R", Red},
	{"G", Green},
}

// Colours returns the colours whose letter appears anywhere in the mana
// cost, ignoring case, in WUBRG order.
func Colours(cost string) []Colour {
	cost = strings.ToUpper(cost)
	colours := []Colour{}
	for _, m := range manaLetters {
		if strings.Contains(cost, m.code) {
			colours = append(colours, m.colour)
		}
	}
	return colours
}

// ColourRank collapses a colour list to a single sort rank.
func ColourRank(colours []Colour) Colour {
	switch len(colours) {
	case 0:
		return Colorless
	case 1:
		return colours[0]
	default:
		return Multicolor
	}
}
