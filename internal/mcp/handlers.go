package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/akelani/classchat/internal/qa"
)

// handleSearchCourseMaterials runs a budgeted retrieval over one course's
// namespaces and renders the hits for agent consumption.
func (s *Server) handleSearchCourseMaterials(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	course, err := request.RequireString("course")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: course"), nil
	}
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	namespaces, err := s.catalog.Namespaces(course)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf(
			"unknown course %q. Use list_courses to see what is available.", course,
		)), nil
	}

	docs, err := s.retriever.Retrieve(ctx, query, namespaces, course)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(docs) == 0 {
		return mcp.NewToolResultText(
			"No results found. The course materials may not be indexed yet. Run `classchat index` to index them.",
		), nil
	}

	return mcp.NewToolResultText(formatSearchResults(course, docs)), nil
}

// handleListCourses returns the catalog's course labels.
func (s *Server) handleListCourses(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names := s.catalog.CourseNames()
	if len(names) == 0 {
		return mcp.NewToolResultText("The catalog is empty. Run `classchat init` to configure courses."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d course(s) available:\n", len(names)))
	for _, name := range names {
		sb.WriteString("- " + name + "\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// formatSearchResults converts retrieved documents into a rich text format
// optimized for AI agent consumption.
func formatSearchResults(course string, docs []qa.Document) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d passage(s) in %s:\n", len(docs), course))

	for i, d := range docs {
		sb.WriteString(fmt.Sprintf("\n--- Result %d ---\n", i+1))
		sb.WriteString(fmt.Sprintf("Source: %s (page %d of %d)\n", d.Source, d.PageNumber, d.TotalPages))
		sb.WriteString(d.Text)
		sb.WriteString("\n")
	}

	return sb.String()
}
