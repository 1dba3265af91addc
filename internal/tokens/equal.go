package tokens

// Equal compares two streams structurally. Spans and punctuation spacing
// are ignored, so streams built by hand compare equal to lexed ones.
func Equal(a, b Stream) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !TreeEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// TreeEqual compares two trees structurally
func TreeEqual(a, b Tree) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == KindGroup {
		return a.Delim == b.Delim && Equal(a.Stream, b.Stream)
	}
	return a.Text == b.Text
}

// Contains reports whether needle occurs as a contiguous run anywhere in s,
// including inside groups.
func Contains(s, needle Stream) bool {
	if len(needle) == 0 {
		return true
	}
	for i := 0; i+len(needle) <= len(s); i++ {
		if Equal(s[i:i+len(needle)], needle) {
			return true
		}
	}
	for _, t := range s {
		if t.Kind == KindGroup && Contains(t.Stream, needle) {
			return true
		}
	}
	return false
}
