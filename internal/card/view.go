package card

import (
	"cardconjurer/internal/cardtext"
)

// View holds the display fields derived from a card's faces.
type View struct {
	Name          string            `json:"name"`
	NameBack      string            `json:"name_back"`
	Cost          string            `json:"cost"`
	Types         []string          `json:"types"`
	Subtypes      []string          `json:"subtypes"`
	TypesBack     []string          `json:"types_back"`
	SubtypesBack  []string          `json:"subtypes_back"`
	Rules         string            `json:"rules"`
	RulesBack     string            `json:"rules_back"`
	Flavor        string            `json:"flavor"`
	FlavorBack    string            `json:"flavor_back"`
	PT            string            `json:"pt"`
	PTBack        string            `json:"pt_back"`
	Loyalty       string            `json:"loyalty"`
	LoyaltyBack   string            `json:"loyalty_back"`
	IsDoubleFaced bool              `json:"is_double_faced"`
	Colours       []cardtext.Colour `json:"colours"`
	OrderKey      cardtext.OrderKey `json:"order_key"`
	cardtext.Classification
}

// View derives the display fields with the default text deriver.
func (c Card) View() View {
	return c.ViewWith(cardtext.Default)
}

// ViewWith derives the display fields. Nothing is cached; every call reads
// the current faces.
func (c Card) ViewWith(d cardtext.Deriver) View {
	name := displayName(c.Front)
	nameBack := cardtext.Name(c.Back)
	backRulesName := nameBack
	if backRulesName == "" {
		backRulesName = name
	}

	cost := cardtext.Text(c.Front, "mana")
	return View{
		Name:           name,
		NameBack:       nameBack,
		Cost:           cost,
		Types:          cardtext.TypeLine(c.Front, cardtext.PartMain),
		Subtypes:       cardtext.TypeLine(c.Front, cardtext.PartSub),
		TypesBack:      cardtext.TypeLine(c.Back, cardtext.PartMain),
		SubtypesBack:   cardtext.TypeLine(c.Back, cardtext.PartSub),
		Rules:          d.RulesOrFlavor(c.Front, cardtext.PartMain, name),
		RulesBack:      d.RulesOrFlavor(c.Back, cardtext.PartMain, backRulesName),
		Flavor:         d.RulesOrFlavor(c.Front, cardtext.PartSub, name),
		FlavorBack:     d.RulesOrFlavor(c.Back, cardtext.PartSub, backRulesName),
		PT:             cardtext.Text(c.Front, "pt"),
		PTBack:         cardtext.Text(c.Back, "pt"),
		Loyalty:        cardtext.Text(c.Front, "loyalty"),
		LoyaltyBack:    cardtext.Text(c.Back, "loyalty"),
		IsDoubleFaced:  c.IsDoubleFaced(),
		Colours:        cardtext.Colours(cost),
		OrderKey:       cardtext.SetOrderKey(c.Front, name),
		Classification: cardtext.Classify(c.Front),
	}
}

// displayName is the front-face name, or "Unknown" when it has none.
func displayName(front cardtext.Face) string {
	if name := cardtext.Name(front); name != "" {
		return name
	}
	return "Unknown"
}
