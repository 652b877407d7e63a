package str

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FirstToken returns the first whitespace-delimited token of a file name
// without its extension.
func FirstToken(fileName string) string {
	base := filepath.Base(fileName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	fs := strings.Fields(base)
	if len(fs) == 0 {
		return ""
	}
	return fs[0]
}

// Initials returns upper-cased first letters of every word of a name.
func Initials(name string) string {
	var sb strings.Builder
	for _, w := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(w)
		sb.WriteRune(unicode.ToUpper(r))
	}
	return sb.String()
}
