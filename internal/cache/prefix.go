package cache

import "fmt"

type Prefix string

const (
	// AccessCount holds the per-URL request counter.
	AccessCount Prefix = "count"
)

func (p Prefix) Key(id string) string {
	return fmt.Sprintf("%s:%s", p, id)
}

// PageKey is the key of a cached page body. Bodies are stored under
// the bare URL, without a prefix.
func PageKey(url string) string {
	return url
}
