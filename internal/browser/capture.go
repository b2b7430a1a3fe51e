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
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// productURLPattern matches the canonical short link of a published
// product: https://<subdomain>.<host>/l/<slug>.
func productURLPattern(host string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`https?://[a-z0-9-]+\.%s/l/[A-Za-z0-9_-]+`, regexp.QuoteMeta(host)))
}

// captureProductURL hunts for the published product URL. Strategies run in
// order, first hit wins: input field values, anchor hrefs, the rendered
// page text, and finally a derivation from the page's own URL. The last
// one exists because the wizard sometimes lands on
// https://<sub>.<host>/l/<slug>/edit after publishing.
func captureProductURL(host string, inputValues, anchorHrefs []string, pageText, currentURL string) string {
	pattern := productURLPattern(host)

	for _, value := range inputValues {
		if match := pattern.FindString(value); match != "" {
			return match
		}
	}
	for _, href := range anchorHrefs {
		if match := pattern.FindString(href); match != "" {
			return match
		}
	}
	if match := pattern.FindString(pageText); match != "" {
		return match
	}
	return deriveFromCurrentURL(host, currentURL)
}

// deriveFromCurrentURL rebuilds the short link from the subdomain and the
// /l/<slug> path segment of the page URL, if both are present.
func deriveFromCurrentURL(host, currentURL string) string {
	parsed, err := url.Parse(currentURL)
	if err != nil {
		return ""
	}
	if !strings.HasSuffix(parsed.Hostname(), "."+host) {
		return ""
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	for i := 0; i < len(segments)-1; i++ {
		if segments[i] == "l" && segments[i+1] != "" {
			candidate := fmt.Sprintf("https://%s/l/%s", parsed.Hostname(), segments[i+1])
			if productURLPattern(host).MatchString(candidate) {
				return candidate
			}
		}
	}
	return ""
}
