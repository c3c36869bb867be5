// Package qa implements the question-answering pipeline: budgeted
// multi-namespace retrieval, prompt assembly, and the orchestrating chain
// that turns a question into a cited answer.
package qa

import "errors"

// Document is one retrieved course-material chunk, tagged with its source
// file and page position. Never mutated after retrieval.
type Document struct {
	Text       string `json:"text"`
	Source     string `json:"source"`
	PageNumber int    `json:"page_number"`
	TotalPages int    `json:"total_pages"`
}

// Result is the unit returned to the caller: the sanitized answer plus the
// documents it was grounded on, in retrieval order.
type Result struct {
	Answer  string     `json:"answer"`
	Sources []Document `json:"sources"`
}

// ErrNoEmbedding reports that the embedding service returned no vector for
// the question. Fatal for the call.
var ErrNoEmbedding = errors.New("embedding service returned no vector")

// ErrEmptyAnswer reports that the generation call succeeded at the
// transport level but returned no usable content.
var ErrEmptyAnswer = errors.New("model returned no content")
