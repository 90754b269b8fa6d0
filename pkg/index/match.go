package index

import "strings"

// wordSeparator splits multi-word catalog names ("venusaur-mega").
const wordSeparator = "-"

// Normalize canonicalizes a query for matching: trimmed and lowercased.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// matches reports whether a normalized name matches a normalized query:
// exact equality, name prefix, or equality with one hyphen-separated word of
// the name. The three classes carry no ranking distinction.
func matches(name, query string) bool {
	if name == query {
		return true
	}
	if strings.HasPrefix(name, query) {
		return true
	}
	for _, word := range strings.Split(name, wordSeparator) {
		if word == query {
			return true
		}
	}
	return false
}

// Search returns the entries matching query in index insertion order
// (source catalog order). An empty or whitespace query matches nothing.
// Search is a pure read; calling it twice with the same query yields the
// same ordered result.
func (c *Cache) Search(query string) []Entry {
	q := Normalize(query)
	if q == "" {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Entry
	for _, e := range c.entries {
		if matches(Normalize(e.Name), q) {
			out = append(out, e)
		}
	}
	return out
}
