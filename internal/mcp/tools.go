package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchCourseMaterialsTool defines the search_course_materials MCP tool.
var searchCourseMaterialsTool = mcp.NewTool("search_course_materials",
	mcp.WithDescription("Search the indexed materials of a course semantically. Returns matching passages with their source file and page numbers."),
	mcp.WithString("course",
		mcp.Required(),
		mcp.Description("Course label, e.g. INFO 2950"),
	),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
)

// listCoursesTool defines the list_courses MCP tool.
var listCoursesTool = mcp.NewTool("list_courses",
	mcp.WithDescription("List the courses available in the catalog."),
)
