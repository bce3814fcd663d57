package recipe

// scanIslands collects every balanced {...} or [...] substring of text, in
// order of opening position. The scanner tracks string literals so brackets
// inside quoted values do not break the balance count.
func scanIslands(text string) []string {
	var islands []string
	for i := 0; i < len(text); i++ {
		if text[i] != '{' && text[i] != '[' {
			continue
		}
		if end, ok := matchBracket(text, i); ok {
			islands = append(islands, text[i:end+1])
		}
	}
	return islands
}

// matchBracket returns the index of the bracket closing the one at start.
func matchBracket(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
