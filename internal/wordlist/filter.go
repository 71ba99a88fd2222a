package wordlist

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// FilterForCharset keeps words made only of characters in charset.
func FilterForCharset(charset map[rune]struct{}) FilterFunc {
	return func(word string) bool {
		if word == "" {
			return false
		}
		for _, r := range word {
			if _, ok := charset[r]; !ok {
				return false
			}
		}
		return true
	}
}

// Filter returns the words accepted by keep, in order.
func Filter(words []string, keep FilterFunc) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if keep(w) {
			out = append(out, w)
		}
	}
	return out
}
