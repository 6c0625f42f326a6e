package groupgate

import "strings"

// Slugify lowercases s and collapses every run of non-alphanumeric
// characters into a single hyphen. Leading and trailing hyphens are
// trimmed: "Widget  Read!" becomes "widget-read".
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DeriveName derives a group's unique name from its type and display name:
// the type's wire code, a hyphen, and the slugified display name. A scope
// group displayed as "widget-read" derives to "s-widget-read".
func DeriveName(typ GroupType, displayName string) string {
	slug := Slugify(displayName)
	if slug == "" {
		return ""
	}
	return typ.String() + "-" + slug
}
