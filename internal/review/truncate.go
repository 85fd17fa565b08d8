package review

// MaxDetailsLen caps the details text of an issue, counted in runes.
const MaxDetailsLen = 200

// TruncateDetails cuts s to MaxDetailsLen runes.
func TruncateDetails(s string) string {
	n := 0
	for i := range s {
		if n == MaxDetailsLen {
			return s[:i]
		}
		n++
	}
	return s
}
