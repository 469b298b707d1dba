package cardtext

import (
	"regexp"
	"strings"
)

// Part selects one side of a split field.
type Part int

const (
	// PartMain is the text before the split point: types, or rules text.
	PartMain Part = 0
	// PartSub is the text after the split point: subtypes, or flavor text.
	PartSub Part = 1
)

// typeDash matches the type-line delimiter: a dash optionally wrapped in
// tag braces, or a printed em dash.
var typeDash = regexp.MustCompile(`\{?-\}?|—`)

// TypeLine splits the type field once on its dash and returns the
// whitespace-separated tokens of the requested part. A type line without a
// dash has no subtypes.
func TypeLine(face Face, part Part) []string {
	line := Text(face, "type")
	var side string
	switch loc := typeDash.FindStringIndex(line); {
	case part == PartMain && loc == nil:
		side = line
	case part == PartMain:
		side = line[:loc[0]]
	case part == PartSub && loc != nil:
		side = line[loc[1]:]
	default:
		return []string{}
	}
	return strings.Fields(side)
}

// Types returns the supertypes and types (everything before the dash).
func Types(face Face) []string {
	return TypeLine(face, PartMain)
}

// Subtypes returns everything after the dash.
func Subtypes(face Face) []string {
	return TypeLine(face, PartSub)
}

// HasType reports whether value is one of the face's types, ignoring case.
func HasType(face Face, value string) bool {
	return containsFold(Types(face), value)
}

// HasSubtype reports whether value is one of the face's subtypes, ignoring case.
func HasSubtype(face Face, value string) bool {
	return containsFold(Subtypes(face), value)
}

func containsFold(list []string, value string) bool {
	for _, s := range list {
		if strings.EqualFold(s, value) {
			return true
		}
	}
	return false
}

// Classification holds the type flags used for display and set ordering.
type Classification struct {
	IsCreature  bool `json:"is_creature"`
	IsLegendary bool `json:"is_legendary"`
	IsArtifact  bool `json:"is_artifact"`
	IsLand      bool `json:"is_land"`
	IsToken     bool `json:"is_token"`
}

// Classify tests the face's types for the fixed keywords.
func Classify(face Face) Classification {
	types := Types(face)
	return Classification{
		IsCreature:  containsFold(types, "creature"),
		IsLegendary: containsFold(types, "legendary"),
		IsArtifact:  containsFold(types, "artifact"),
		IsLand:      containsFold(types, "land"),
		IsToken:     containsFold(types, "token"),
	}
}
