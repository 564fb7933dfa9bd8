package query

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/itsmostafa/docidx/internal/docindex"
)

// snippetContext is the number of bytes shown on each side of a match.
const snippetContext = 100

// Hit is one search result.
type Hit struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Relevance int    `json:"relevance"`
	Snippet   string `json:"snippet"`
}

// Search finds sections whose title or content contains query, ignoring
// case. Title matches weigh twice as much as content matches. Results are
// ordered by relevance, ties in document order.
func Search(snap *docindex.Snapshot, query string) []Hit {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var hits []Hit
	for _, s := range snap.Sections() {
		title := strings.ToLower(s.Title)
		content := strings.ToLower(s.Content)
		relevance := strings.Count(title, q)*2 + strings.Count(content, q)
		if relevance == 0 {
			continue
		}
		hits = append(hits, Hit{
			ID:        s.ID,
			Title:     s.Title,
			Relevance: relevance,
			Snippet:   snippet(s.Content, q),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Relevance > hits[j].Relevance
	})
	return hits
}

// snippet cuts the context around the first match of q (already lowercase)
// out of content. The snippet keeps the original casing.
func snippet(content, q string) string {
	idx, matchEnd := indexFold(content, q)
	if idx < 0 {
		if len(content) > 2*snippetContext {
			return strings.ToValidUTF8(content[:2*snippetContext], "") + "..."
		}
		return content
	}

	start := max(0, idx-snippetContext)
	end := min(len(content), matchEnd+snippetContext)

	out := strings.ToValidUTF8(content[start:end], "")
	if start > 0 {
		out = "..." + out
	}
	if end < len(content) {
		out += "..."
	}
	return out
}

// indexFold returns the byte range in s of the first case-insensitive match
// of q, or -1, -1. Offsets refer to s itself, whose case folding may not
// have the same byte length as q.
func indexFold(s, q string) (int, int) {
	n := utf8.RuneCountInString(q)
	if n == 0 {
		return -1, -1
	}
	for i := range s {
		j, count := i, 0
		for j < len(s) && count < n {
			_, size := utf8.DecodeRuneInString(s[j:])
			j += size
			count++
		}
		if count < n {
			break
		}
		if strings.EqualFold(s[i:j], q) {
			return i, j
		}
	}
	return -1, -1
}
