package catalog

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// GenerateSKU builds CAT-NAMECO-1234: three letters of the category, up to
// six characters taken two per name word, and the last four digits of the
// millisecond timestamp.
func GenerateSKU(name, category string, now time.Time) string {
	cat := strings.ToUpper(alnum(category))
	if len(cat) > 3 {
		cat = cat[:3]
	}
	var code strings.Builder
	for _, word := range strings.Fields(name) {
		word = strings.ToUpper(alnum(word))
		if len(word) > 2 {
			word = word[:2]
		}
		code.WriteString(word)
	}
	nameCode := code.String()
	if len(nameCode) > 6 {
		nameCode = nameCode[:6]
	}
	return fmt.Sprintf("%s-%s-%04d", cat, nameCode, now.UnixMilli()%10000)
}

func alnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
