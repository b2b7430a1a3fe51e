/*
Copyright 2025 Creator Platform Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package browser

import (
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// The wizard's markup is not ours and drifts without notice. Each step
// therefore carries an ordered locator: candidate CSS selectors tried
// first, then a scan of visible interactive elements by their text.
// Updating a drifted step means editing its Locator, not the stage machine.

// Locator is the ordered matching strategy for one step.
type Locator struct {
	// Selectors are CSS candidates, tried in order.
	Selectors []string
	// TextAll matches an element whose visible text contains every
	// entry, case-insensitive.
	TextAll []string
	// FuzzyDrift is the allowable levenshtein drift (percent of the
	// longer string) when exact text matching finds nothing. Zero
	// disables the fallback.
	FuzzyDrift float64
}

var (
	emailFieldLocator = Locator{
		Selectors: []string{
			`input[type="email"]`,
			`input[name="email"]`,
			`input[name="user[email]"]`,
			`input[placeholder*="mail" i]`,
		},
	}
	passwordFieldLocator = Locator{
		Selectors: []string{
			`input[type="password"]`,
			`input[name="password"]`,
			`input[name="user[password]"]`,
		},
	}
	loginSubmitLocator = Locator{
		Selectors: []string{
			`button[type="submit"]`,
			`input[type="submit"]`,
		},
		TextAll: []string{"log", "in"},
	}
	productNameLocator = Locator{
		Selectors: []string{
			`input[name="name"]`,
			`input[placeholder*="name" i]`,
			`input[aria-label*="name" i]`,
		},
	}
	productPriceLocator = Locator{
		Selectors: []string{
			`input[name="price_range"]`,
			`input[placeholder*="price" i]`,
			`input[aria-label*="price" i]`,
			`input[type="number"]`,
		},
	}
	digitalProductLocator = Locator{
		TextAll:    []string{"digital", "product"},
		FuzzyDrift: 20,
	}
	nextCustomizeLocator = Locator{
		TextAll:    []string{"next", "customize"},
		FuzzyDrift: 20,
	}
	saveContinueLocator = Locator{
		TextAll:    []string{"save", "continue"},
		FuzzyDrift: 20,
	}
	publishContinueLocator = Locator{
		TextAll:    []string{"publish", "continue"},
		FuzzyDrift: 20,
	}
)

// textMatchesAll reports whether text contains every needle,
// case-insensitive.
func textMatchesAll(text string, needles []string) bool {
	if len(needles) == 0 {
		return false
	}
	lowered := strings.ToLower(text)
	for _, needle := range needles {
		if !strings.Contains(lowered, strings.ToLower(needle)) {
			return false
		}
	}
	return true
}

// matchText picks the first candidate whose text contains every needle.
// When nothing matches exactly and drift is allowed, the closest candidate
// within the drift wins, so lightly reworded labels still resolve.
// Returns the candidate index, or -1.
func (l Locator) matchText(candidates []string) int {
	for i, text := range candidates {
		if textMatchesAll(text, l.TextAll) {
			return i
		}
	}
	if l.FuzzyDrift <= 0 {
		return -1
	}

	target := strings.ToLower(strings.Join(l.TextAll, " "))
	best := -1
	bestDistance := 0
	for i, text := range candidates {
		candidate := strings.ToLower(strings.TrimSpace(text))
		if candidate == "" {
			continue
		}
		distance := levenshtein.DistanceForStrings([]rune(candidate), []rune(target), levenshtein.DefaultOptions)
		maxLength := len(candidate)
		if len(target) > maxLength {
			maxLength = len(target)
		}
		maxAllowed := int(float64(maxLength) * (l.FuzzyDrift / 100))
		if distance > maxAllowed {
			continue
		}
		if best == -1 || distance < bestDistance {
			best = i
			bestDistance = distance
		}
	}
	return best
}
