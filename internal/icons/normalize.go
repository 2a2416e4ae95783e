// Package icons сопоставляет свободные названия технологий с иконками каталога.
package icons

import "strings"

// Normalize приводит название к ключу поиска: нижний регистр, только [a-z0-9].
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToLower(raw) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
