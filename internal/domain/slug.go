package domain

// ValidSlug reports whether s is a well-formed topic slug:
// lowercase alphanumeric segments joined by single hyphens,
// no leading or trailing hyphen.
func ValidSlug(s string) bool {
	if s == "" {
		return false
	}
	prevHyphen := true // treat start as a hyphen boundary to forbid a leading one
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			prevHyphen = false
		case c == '-':
			if prevHyphen {
				return false
			}
			prevHyphen = true
		default:
			return false
		}
	}
	return !prevHyphen
}
