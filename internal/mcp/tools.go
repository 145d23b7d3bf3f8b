package mcp

import "github.com/mark3labs/mcp-go/mcp"

var promptToolDef = mcp.NewTool("habit_prompt",
	mcp.WithDescription(`Interpret a free-form habit request and act on it for the given phone number.
Supported requests: create a habit ("I want to drink water 3 times a day"), list habits ("show my habits"),
delete habits by name ("stop smoking"). Deletion removes every active habit whose name contains the given text.
The user is registered on first contact.`),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("The request in natural language"),
	),
	mcp.WithString("phone_number",
		mcp.Required(),
		mcp.Description("Phone number identifying the user"),
	),
)

var listToolDef = mcp.NewTool("habit_list",
	mcp.WithDescription("List the active habits of the user with the given phone number. Unknown numbers return an empty list."),
	mcp.WithString("phone_number",
		mcp.Required(),
		mcp.Description("Phone number identifying the user"),
	),
)

var interpretToolDef = mcp.NewTool("habit_interpret",
	mcp.WithDescription("Show how a request would be interpreted, without touching any stored habits."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("The request in natural language"),
	),
)
