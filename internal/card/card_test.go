package card

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cardconjurer/internal/cardtext"
)

// face builds a card face from text fields; empty values are omitted.
func face(fields map[string]string) cardtext.Face {
	text := map[string]any{}
	for k, v := range fields {
		text[k] = map[string]any{"text": v}
	}
	return cardtext.Face{"text": text}
}

func named(id int64, title, typeLine, mana string) Card {
	return Card{ID: id, SetID: 1, Front: face(map[string]string{"title": title, "type": typeLine, "mana": mana})}
}

func TestCard_View(t *testing.T) {
	c := Card{
		Front: face(map[string]string{
			"title":   "Serra {i}Angel{/i}",
			"type":    "Creature - Angel",
			"mana":    "{3}{W}{W}",
			"rules":   "Flying, vigilance{flavor}{i}Her sword sings.{/i}",
			"pt":      "4/4",
			"loyalty": "",
		}),
		Back: face(map[string]string{
			"title":   "Angel Ascendant",
			"type":    "Legendary Planeswalker — Serra",
			"rules":   "~ gains flying.",
			"loyalty": "3",
		}),
	}

	v := c.View()
	assert.Equal(t, "Serra Angel", v.Name)
	assert.Equal(t, "Angel Ascendant", v.NameBack)
	assert.Equal(t, "{3}{W}{W}", v.Cost)
	assert.Equal(t, []string{"Creature"}, v.Types)
	assert.Equal(t, []string{"Angel"}, v.Subtypes)
	assert.Equal(t, []string{"Legendary", "Planeswalker"}, v.TypesBack)
	assert.Equal(t, []string{"Serra"}, v.SubtypesBack)
	assert.Equal(t, "Flying, vigilance", v.Rules)
	assert.Equal(t, "Her sword sings.", v.Flavor)
	assert.Equal(t, "Angel Ascendant gains flying.", v.RulesBack)
	assert.Equal(t, "4/4", v.PT)
	assert.Equal(t, "3", v.LoyaltyBack)
	assert.True(t, v.IsDoubleFaced)
	assert.True(t, v.IsCreature)
	assert.False(t, v.IsLand)
	assert.Equal(t, []cardtext.Colour{cardtext.White}, v.Colours)
	assert.Equal(t, cardtext.OrderKey{TokenRank: 1, ColourRank: cardtext.White, LandRank: 1, Name: "serra angel"}, v.OrderKey)
}

func TestCard_View_EmptyFaces(t *testing.T) {
	v := Card{}.View()
	assert.Equal(t, "Unknown", v.Name)
	assert.Equal(t, "", v.NameBack)
	assert.Equal(t, []string{}, v.Types)
	assert.Equal(t, []string{}, v.SubtypesBack)
	assert.Equal(t, "", v.Rules)
	assert.False(t, v.IsDoubleFaced)
	assert.Equal(t, []cardtext.Colour{}, v.Colours)
	assert.Equal(t, cardtext.Colorless, v.OrderKey.ColourRank)
	assert.Equal(t, "unknown", v.OrderKey.Name)
}

func TestCard_View_BackRulesFallBackToFrontName(t *testing.T) {
	c := Card{
		Front: face(map[string]string{"title": "Delver"}),
		Back:  face(map[string]string{"rules": "{cardname} flies."}),
	}
	assert.Equal(t, "Delver flies.", c.View().RulesBack)
}

func TestCard_ViewWith_Order(t *testing.T) {
	c := Card{Front: cardtext.Face{
		"text": map[string]any{
			"rules":    map[string]any{"text": "Choose one {.} A"},
			"reminder": map[string]any{"text": "(Reminder.)"},
			"ability0": map[string]any{"text": "Draw."},
		},
		"saga": map[string]any{"abilities": []any{"1"}},
	}}

	after := c.ViewWith(cardtext.Deriver{Order: cardtext.NormalizeAfterAppend}).Rules
	before := c.ViewWith(cardtext.Deriver{Order: cardtext.NormalizeBeforeAppend}).Rules
	assert.Equal(t, c.View().Rules, after)
	assert.Contains(t, after, "I — Draw.")
	assert.Contains(t, before, "I — Draw.")
}

func TestSortBySetOrder(t *testing.T) {
	cards := []Card{
		named(1, "Goblin Token", "Token Creature - Goblin", "{R}"),
		named(2, "Forest", "Basic Land - Forest", ""),
		named(3, "Boros Charm", "Instant", "{R}{W}"),
		named(4, "Counterspell", "Instant", "{U}{U}"),
		named(5, "The Abyss", "World Enchantment", "{3}{B}"),
		named(6, "Ornithopter", "Artifact Creature - Thopter", "{0}"),
		named(7, "Angel of Mercy", "Creature - Angel", "{4}{W}"),
		named(8, "Abyssal Specter", "Creature - Specter", "{2}{B}{B}"),
	}

	SortBySetOrder(cards)

	got := make([]int64, 0, len(cards))
	for _, c := range cards {
		got = append(got, c.ID)
	}
	// "The Abyss" sorts as "abyss", before "abyssal specter".
	assert.Equal(t, []int64{7, 4, 5, 8, 3, 6, 2, 1}, got)
}

func TestInput_AsPatch(t *testing.T) {
	art := "data:image/png;base64,AA=="
	in := Input{SetID: 3, Front: face(map[string]string{"title": "A"}), Images: Images{FrontArt: &art}}

	p := in.AsPatch()
	if assert.NotNil(t, p.SetID) {
		assert.Equal(t, int64(3), *p.SetID)
	}
	if assert.NotNil(t, p.Back) {
		assert.Empty(t, *p.Back)
	}
	assert.Equal(t, &art, p.FrontArt)
	assert.Nil(t, p.BackImage)
}
