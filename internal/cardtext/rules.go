package cardtext

import (
	"regexp"
	"strconv"
	"strings"
)

// PostProcessOrder decides whether paragraph and bullet normalisation run
// over the synthesized planeswalker, saga and class text or only over the
// base rules field.
type PostProcessOrder int

const (
	// NormalizeAfterAppend normalises the combined text. This is the default.
	NormalizeAfterAppend PostProcessOrder = iota
	// NormalizeBeforeAppend normalises the base rules text, then appends the
	// synthesized blocks untouched.
	NormalizeBeforeAppend
)

// maxSynthesized bounds saga chapters and class levels so hostile counts
// cannot blow up the output.
const maxSynthesized = 3999

var (
	allItalic     = regexp.MustCompile(`(?i)^\{i\}[^{}]+(?:\{/i\})?$`)
	flavorSplit   = regexp.MustCompile(`(?i)\{flavor\}|\{-\}\s*\{i\}`)
	cardNameToken = regexp.MustCompile(`(?i)~|\{cardname\}`)
	lineBreaks    = regexp.MustCompile(`[\r\n]+`)
	bulletSpacing = regexp.MustCompile(`[\s\p{Z}]+(\{\.\}|•)`)
)

// Deriver derives rules and flavor text. The zero value uses
// NormalizeAfterAppend.
type Deriver struct {
	Order PostProcessOrder
}

// Default is the Deriver used by the package-level functions.
var Default = Deriver{}

// Rules returns the face's rules text with synthesized ability text.
func Rules(face Face, cardName string) string {
	return Default.RulesOrFlavor(face, PartMain, cardName)
}

// Flavor returns the face's flavor text without italic tags.
func Flavor(face Face) string {
	return Default.RulesOrFlavor(face, PartSub, "")
}

// RulesOrFlavor returns rules (PartMain) or flavor (PartSub) text using the
// default Deriver.
func RulesOrFlavor(face Face, part Part, cardName string) string {
	return Default.RulesOrFlavor(face, part, cardName)
}

// RulesOrFlavor splits the rules field into rules and flavor text and
// returns the requested part, trimmed. cardName replaces ~ and {cardname}
// in rules text.
func (d Deriver) RulesOrFlavor(face Face, part Part, cardName string) string {
	base, flavor := splitFlavor(Text(face, "rules"))

	if part == PartSub {
		return strings.TrimSpace(italicTagPairs.ReplaceAllString(flavor, ""))
	}
	if part != PartMain {
		return ""
	}

	extra := planeswalkerText(face) + sagaText(face) + classText(face)
	if extra != "" && base != "" && !strings.HasSuffix(base, "\n") {
		base += "\n"
	}

	var line string
	if d.Order == NormalizeBeforeAppend {
		line = strings.TrimSpace(paragraphs(base))
		if line != "" && extra != "" {
			line += "\n"
		}
		line = cardNameToken.ReplaceAllLiteralString(line+extra, cardName)
	} else {
		line = cardNameToken.ReplaceAllLiteralString(base+extra, cardName)
		line = paragraphs(line)
	}
	return strings.TrimSpace(line)
}

// splitFlavor separates rules from flavor. Text that is a single italic
// span is all flavor.
func splitFlavor(rules string) (string, string) {
	if allItalic.MatchString(rules) {
		return "", rules
	}
	loc := flavorSplit.FindStringIndex(rules)
	if loc == nil {
		return rules, ""
	}
	return rules[:loc[0]], rules[loc[1]:]
}

// paragraphs turns every run of line breaks into a blank line, then keeps
// bullet points (spell modes) on consecutive lines.
func paragraphs(s string) string {
	s = lineBreaks.ReplaceAllString(s, "\n\n")
	return bulletSpacing.ReplaceAllString(s, "\n$1")
}

func planeswalkerText(face Face) string {
	abilities, ok := list(face, "planeswalker", "abilities")
	if !ok {
		return ""
	}
	var b strings.Builder
	for i, v := range abilities {
		cost, ok := v.(string)
		if !ok {
			continue
		}
		ability := Text(face, "ability"+strconv.Itoa(i))
		if ability == "" {
			continue
		}
		// Static and triggered abilities have no loyalty cost.
		if cost = strings.TrimSpace(cost); cost != "" {
			b.WriteString(cost + ": ")
		}
		b.WriteString(ability + "\n")
	}
	return b.String()
}

func sagaText(face Face) string {
	abilities, ok := list(face, "saga", "abilities")
	if !ok {
		return ""
	}
	var b strings.Builder
	if reminder := Text(face, "reminder"); reminder != "" {
		b.WriteString(reminder + "\n")
	}

	chapter := 0
	for i, v := range abilities {
		s, ok := v.(string)
		if !ok {
			continue
		}
		n, ok := chapterCount(s)
		if !ok {
			continue
		}
		var chapters []string
		for ; n > 0 && chapter < maxSynthesized; n-- {
			chapter++
			chapters = append(chapters, Roman(chapter))
		}
		if len(chapters) > 0 {
			b.WriteString(strings.Join(chapters, ", ") + " — " + Text(face, "ability"+strconv.Itoa(i)) + "\n")
		}
	}
	return b.String()
}

// chapterCount parses a saga ability entry: ASCII digits only, surrounding
// whitespace allowed.
func chapterCount(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return maxSynthesized, true
	}
	return n, true
}

func classText(face Face) string {
	levels, ok := count(face, "class", "count")
	if !ok {
		return ""
	}
	levels = min(levels, maxSynthesized)

	var b strings.Builder
	b.WriteString(Text(face, "level0c") + "\n")
	for i := 1; i <= levels; i++ {
		level := strconv.Itoa(i)
		cost := strings.TrimRight(Text(face, "level"+level+"a"), ":")
		b.WriteString(cost + ": " + Text(face, "level"+level+"b") + "\n")
		b.WriteString(Text(face, "level"+level+"c") + "\n")
	}
	return b.String()
}
