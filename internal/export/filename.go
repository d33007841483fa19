package export

import (
	"strings"
	"unicode/utf8"
)

// Extension is appended to every exported file.
const Extension = ".text"

// maxStemBytes keeps sanitized names comfortably under common NAME_MAX
// limits once the extension is appended.
const maxStemBytes = 200

// SanitizeTitle converts a page title into a single filesystem-safe path
// component. Characters that are illegal on common filesystems, plus
// spaces, become underscores; leading and trailing dots and spaces are
// dropped; overlong names are truncated on a rune boundary. The result
// is never empty.
func SanitizeTitle(title string) string {
	stem := strings.ToValidUTF8(title, "�")
	stem = strings.Map(replaceIllegal, stem)
	stem = strings.Trim(stem, ". ")

	for len(stem) > maxStemBytes {
		_, size := utf8.DecodeLastRuneInString(stem)
		stem = stem[:len(stem)-size]
	}

	if stem == "" {
		return "_"
	}

	return stem
}

// FileName returns the output filename for a page title.
func FileName(title string) string {
	return SanitizeTitle(title) + Extension
}

func replaceIllegal(r rune) rune {
	switch r {
	case '<', '>', ':', '"', '/', '\\', '|', '?', '*', ' ':
		return '_'
	}
	return r
}
