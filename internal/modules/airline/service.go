// README: Airline mention detection with tiered confidence over the alias tables.
package airline

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"tripdesk/internal/textnorm"
)

// contextualTemplates are the high-confidence patterns. %s is the quoted
// alias. A mention inside one of these shapes is almost never a false
// positive ("con latam", "latam a miami", "aerolinea iberia").
var contextualTemplates = []string{
	`\bcon (?:la )?(?:aerolinea )?%s\b`,
	`\b%s (?:a|hacia|hasta|business|economy)\b`,
	`\b(?:aerolinea|airline) %s\b`,
	`\bvolar (?:con|por) %s\b`,
	`\ben %s\b`,
}

// flexibleRe captures up to three words after an airline cue so the low
// tier can try a verbatim alias lookup on what follows.
var flexibleRe = regexp.MustCompile(`(?:con la aerolinea|aerolinea|airline)\s+([a-z]+(?:\s+[a-z]+){0,2})`)

// captureStopWords trim the flexible capture at the first word that clearly
// belongs to the rest of the sentence, not the airline name.
var captureStopWords = map[string]bool{
	"a": true, "hacia": true, "para": true, "desde": true,
	"directo": true, "business": true, "economy": true,
	"por": true, "en": true, "sin": true, "con": true,
}

var (
	sortedOnce    sync.Once
	sortedAliases []string
)

// aliasesLongestFirst returns alias keys ordered longest-first so specific
// names ("aerolineas argentinas") win over generic ones ("aerolineas").
func aliasesLongestFirst() []string {
	sortedOnce.Do(func() {
		sortedAliases = make([]string, 0, len(aliases))
		for k := range aliases {
			sortedAliases = append(sortedAliases, k)
		}
		sort.Slice(sortedAliases, func(i, j int) bool {
			if len(sortedAliases[i]) != len(sortedAliases[j]) {
				return len(sortedAliases[i]) > len(sortedAliases[j])
			}
			return sortedAliases[i] < sortedAliases[j]
		})
	})
	return sortedAliases
}

// DetectInText finds an airline mention in free text. It tries three
// strategies in strict priority order and returns nil when none match:
//  1. contextual patterns around a known alias (confidence 0.9)
//  2. bare word-boundary alias match, aliases longer than 3 chars (0.7)
//  3. words captured after "aerolinea"/"airline", looked up verbatim (0.5)
func DetectInText(text string) *Detection {
	normalized := textnorm.Normalize(text)

	for _, alias := range aliasesLongestFirst() {
		quoted := regexp.QuoteMeta(alias)
		for _, tpl := range contextualTemplates {
			re := regexp.MustCompile(fmt.Sprintf(tpl, quoted))
			if re.MatchString(normalized) {
				code := aliases[alias]
				return &Detection{Code: code, Name: officialNames[code], Confidence: 0.9}
			}
		}
	}

	for _, alias := range aliasesLongestFirst() {
		if len(alias) <= 3 {
			continue
		}
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(alias) + `\b`)
		if re.MatchString(normalized) {
			code := aliases[alias]
			return &Detection{Code: code, Name: officialNames[code], Confidence: 0.7}
		}
	}

	if m := flexibleRe.FindStringSubmatch(normalized); m != nil {
		words := strings.Fields(m[1])
		kept := words[:0]
		for _, w := range words {
			if captureStopWords[w] {
				break
			}
			kept = append(kept, w)
		}
		candidate := strings.Join(kept, " ")
		if code, ok := aliases[candidate]; ok {
			return &Detection{Code: code, Name: officialNames[code], Confidence: 0.5}
		}
	}

	return nil
}

// Code resolves a free-text airline name to its IATA code, or "" if unknown.
func Code(name string) string {
	return aliases[textnorm.Normalize(name)]
}

// Name returns the official display name for an IATA code, or "" if unknown.
func Name(code string) string {
	return officialNames[strings.ToUpper(strings.TrimSpace(code))]
}

// IsValidCode reports whether code is a known IATA airline code.
func IsValidCode(code string) bool {
	_, ok := officialNames[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}
