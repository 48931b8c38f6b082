package locale

// Lookup is one step in a locale resolution chain. It returns the locale
// it found, or false when this source has nothing to contribute.
type Lookup func() (string, bool)

// Fixed wraps a plain string as a lookup; empty strings count as not found.
func Fixed(loc string) Lookup {
	return func() (string, bool) {
		return loc, loc != ""
	}
}

// Resolve tries each lookup in order and returns the first locale found.
// The chain replaces exception-driven fallbacks: each source answers
// "found" or "not found" instead of raising. The final fallback is "en".
func Resolve(lookups ...Lookup) string {
	for _, lookup := range lookups {
		if loc, ok := lookup(); ok {
			return loc
		}
	}
	return "en"
}
