package qa

import (
	"fmt"
	"strings"
)

// DefaultPromptCharBudget caps the rendered source-citation block.
const DefaultPromptCharBudget = 5000

// PromptInput holds everything the assembled prompt embeds. Assembly is
// pure: identical inputs always produce identical output.
type PromptInput struct {
	Question   string
	Course     string     // the course label scoping this conversation
	Catalog    []string   // every namespace name the model may reference
	Documents  []Document // retrieved materials, in retrieval order
	History    string     // raw prior-conversation text, caller supplied
	CharBudget int        // citation block budget; 0 means the default
}

// AssemblePrompt renders the single instruction block handed to the
// generative model. Its structure is a contract with the model, not parsed
// by this program.
func AssemblePrompt(in PromptInput) string {
	budget := in.CharBudget
	if budget <= 0 {
		budget = DefaultPromptCharBudget
	}

	var b strings.Builder

	b.WriteString("You are ClassChat, an AI assistant for university courses. Your role is to give accurate, helpful answers grounded in the class materials you have access to. Never make up answers or state anything you are uncertain about; when uncertain, ask the user for more detail.\n\n")

	fmt.Fprintf(&b, "You answer questions about the class %s only. If the question is unrelated to %s, tell the user so, then answer as best you can. Always answer in the context of %s.\n\n", in.Course, in.Course, in.Course)

	fmt.Fprintf(&b, "The user's question is: %s\n\n", in.Question)

	fmt.Fprintf(&b, "The class materials you have access to, all part of %s, are: %s.\n\n", in.Course, strings.Join(in.Catalog, ", "))

	b.WriteString("Course materials for reference and citation:\n")
	b.WriteString(FormatSourceBlock(in.Documents, budget))
	b.WriteString("\n\n")

	b.WriteString("Select the most relevant materials when developing your answer, and always cite the source and page number in parentheses next to the statement it supports, not grouped at the end. Never deviate from the explicit information found in the materials; if something is not elaborated there, state it as is.\n\n")

	fmt.Fprintf(&b, "Previous conversation with this user: %s\n\n", in.History)

	b.WriteString("If the question continues the previous conversation, use that context for a comprehensive answer; if it is distinct, transition to the new context. Surround any mathematical expression, notation, or variable with $, for example $ax^2 + bx + c = 0$. Use bold for key terms, bullet points for lists, and numbered lists for sequences of steps.\n")

	return b.String()
}

// FormatSourceBlock renders retrieved documents as one line each,
// accumulating whole lines until the next one would overflow the budget.
// Documents past that point are silently omitted; no line is ever cut
// mid-entry.
func FormatSourceBlock(docs []Document, budget int) string {
	var b strings.Builder
	for _, doc := range docs {
		line := FormatDocumentLine(doc)
		need := len(line)
		if b.Len() > 0 {
			need++ // joining newline
		}
		if b.Len()+need > budget {
			break
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	return b.String()
}

// FormatDocumentLine renders one document as a single normalized line.
func FormatDocumentLine(doc Document) string {
	return fmt.Sprintf("- Text: %q, Source: %q, Page Number: %d, Total Pages: %d",
		collapseWhitespace(doc.Text), doc.Source, doc.PageNumber, doc.TotalPages)
}

// collapseWhitespace trims the text and folds every whitespace run into a
// single space, so each document renders as one line.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
