// Package userkey derives storage keys from email addresses.
package userkey

import "strings"

// Derive lower-cases the email and strips every character outside
// [a-z0-9]. The result is used as a storage key segment. The mapping is
// lossy: distinct emails that normalize identically collide, and no
// collision handling exists.
func Derive(email string) string {
	lower := strings.ToLower(strings.TrimSpace(email))

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
