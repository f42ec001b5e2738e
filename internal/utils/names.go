package utils

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// SanitizeName converts a display name into a lowercase slug made of ASCII
// letters, digits and single hyphens. Runs of whitespace (and hyphens) become
// one hyphen, every other character is dropped. The result never starts or
// ends with a hyphen and SanitizeName(SanitizeName(s)) == SanitizeName(s).
// Names without any letter or digit yield "".
func SanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	pending := false
	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(unicode.ToLower(r))
		case r == '-' || unicode.IsSpace(r):
			pending = true
		}
	}
	return b.String()
}

var (
	markdownSpecial = strings.NewReplacer(
		`\`, `\\`,
		"*", `\*`,
		"_", `\_`,
		"`", "\\`",
		"[", `\[`,
		"]", `\]`,
		"<", `\<`,
	)
	numberedListLike = regexp.MustCompile(`(\d)\.(\s|$)`)
	// Markers that open a block when they start a list item's text
	leadingBlockMarker = regexp.MustCompile(`^(\s*)([-+#>=~])`)
	orderedParenLike   = regexp.MustCompile(`^(\s*\d+)\)`)
)

// EscapeMarkdown escapes a title for use as display text inside a sidebar
// line, so "1. Foo" stays a label instead of starting an ordered list and
// "# Week 1" or "- Optional" do not open a heading or a nested list.
// It is never used for file names.
func EscapeMarkdown(name string) string {
	s := markdownSpecial.Replace(name)
	s = numberedListLike.ReplaceAllString(s, `$1\.$2`)
	s = orderedParenLike.ReplaceAllString(s, `$1\)`)
	return leadingBlockMarker.ReplaceAllString(s, `$1\$2`)
}

// SafeFileName sanitizes an attachment display name while keeping its
// extension. When nothing usable remains of the stem, fallback is used.
func SafeFileName(displayName, fallback string) string {
	ext := filepath.Ext(displayName)
	stem := SanitizeName(strings.TrimSuffix(displayName, ext))
	if stem == "" {
		stem = SanitizeName(fallback)
	}
	ext = SanitizeName(ext)
	if ext == "" {
		return stem
	}
	return stem + "." + ext
}

// StripExt returns the file name without its extension
func StripExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
