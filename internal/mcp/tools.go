package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listCatalogTool defines the list_catalog MCP tool.
var listCatalogTool = mcp.NewTool("list_catalog",
	mcp.WithDescription("List every domain in the API portal with its APIs, their locations and whether they are pasted documents."),
	mcp.WithString("domain",
		mcp.Description("Only list this domain"),
	),
)

// getAPITool defines the get_api MCP tool.
var getAPITool = mcp.NewTool("get_api",
	mcp.WithDescription("Get one API from the portal catalog. For pasted documents the endpoints are summarized."),
	mcp.WithString("location",
		mcp.Description("URL or local-api- identifier of the API"),
	),
	mcp.WithString("name",
		mcp.Description("API name, used when location is not given"),
	),
)

// addAPITool defines the add_api MCP tool.
var addAPITool = mcp.NewTool("add_api",
	mcp.WithDescription("Register a new API in a user-defined domain, either by URL or by pasting an OpenAPI/Swagger document."),
	mcp.WithString("api_name",
		mcp.Required(),
		mcp.Description("Display name of the API"),
	),
	mcp.WithString("domain_name",
		mcp.Description("Domain to add to (default \"Custom APIs\")"),
	),
	mcp.WithString("mode",
		mcp.Description("How the API is provided (default url)"),
		mcp.Enum("url", "document"),
	),
	mcp.WithString("url",
		mcp.Description("Location of the specification, for url mode"),
	),
	mcp.WithString("document",
		mcp.Description("JSON or YAML specification text, for document mode"),
	),
)

// removeAPITool defines the remove_api MCP tool.
var removeAPITool = mcp.NewTool("remove_api",
	mcp.WithDescription("Remove an API from a user-defined domain. Built-in domains cannot be changed."),
	mcp.WithString("domain_name",
		mcp.Required(),
		mcp.Description("Domain holding the API"),
	),
	mcp.WithString("api_name",
		mcp.Required(),
		mcp.Description("Name of the API to remove"),
	),
	mcp.WithBoolean("confirm",
		mcp.Required(),
		mcp.Description("Must be true; the removal is not performed otherwise"),
	),
)
