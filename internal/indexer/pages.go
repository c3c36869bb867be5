package indexer

import "strings"

// SplitPages breaks text into pages of at most pageSize characters,
// preferring paragraph boundaries. A paragraph longer than pageSize is
// split hard at the limit. Blank-only input yields no pages.
func SplitPages(text string, pageSize int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var pages []string
	var current strings.Builder

	flush := func() {
		page := strings.TrimSpace(current.String())
		if page != "" {
			pages = append(pages, page)
		}
		current.Reset()
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		// Hard-split paragraphs that alone exceed the page size.
		for len(para) > pageSize {
			flush()
			pages = append(pages, para[:pageSize])
			para = strings.TrimSpace(para[pageSize:])
		}
		if para == "" {
			continue
		}

		need := len(para)
		if current.Len() > 0 {
			need += 2 // joining blank line
		}
		if current.Len()+need > pageSize {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}
	flush()

	return pages
}
