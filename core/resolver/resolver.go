// Package resolver turns a free-form Etsy listing URL into a listing identifier.
package resolver

import "regexp"

// listingPattern matches the first "listing/<digits>" occurrence, ignoring
// ASCII case only. (?i) would also fold letters such as U+017F into "s".
var listingPattern = regexp.MustCompile(`[lL][iI][sS][tT][iI][nN][gG]/([0-9]+)`)

// ExtractListingID returns the digits following the first "listing/" in raw.
// The identifier is returned verbatim, leading zeros included.
// ok is false for empty input, input without "listing/", or "listing/"
// followed by a non-digit.
func ExtractListingID(raw string) (id string, ok bool) {
	if raw == "" {
		return "", false
	}

	defer func() {
		if r := recover(); r != nil {
			id, ok = "", false
		}
	}()

	match := listingPattern.FindStringSubmatch(raw)
	if match == nil {
		return "", false
	}
	return match[1], true
}
