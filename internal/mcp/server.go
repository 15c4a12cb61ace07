// Package mcp binds the Jira operations to MCP tools. Handlers validate the
// primitive argument shape, call into the client and registry through their
// public contracts, and serialize the normalized records as JSON.
package mcp

import (
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/jiratools/jira-mcp/internal/client"
	"github.com/jiratools/jira-mcp/internal/registry"
)

// Server wires the tool surface to the Jira client and the team/alias
// registry.
type Server struct {
	client *client.Client
	reg    *registry.Registry
	log    zerolog.Logger
}

// New builds the tool surface around a connected client.
func New(c *client.Client, reg *registry.Registry, log zerolog.Logger) *Server {
	return &Server{client: c, reg: reg, log: log}
}

// MCPServer registers every tool and resource and returns the underlying MCP
// server, ready to serve over stdio or SSE.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer(
		"jira-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
	)

	s.registerResources(srv)

	srv.AddTool(mcplib.NewTool("search_issues",
		mcplib.WithDescription("Search for Jira issues using JQL (e.g., 'project = PROJ AND status = Open')"),
		mcplib.WithString("jql",
			mcplib.Required(),
			mcplib.Description("JQL query string"),
		),
		mcplib.WithNumber("max_results",
			mcplib.Description("Maximum number of results to return"),
		),
	), s.searchIssuesHandler)

	srv.AddTool(mcplib.NewTool("get_issue",
		mcplib.WithDescription("Get detailed information about a Jira issue"),
		mcplib.WithString("issue_key",
			mcplib.Required(),
			mcplib.Description("Jira issue key (e.g., 'PROJ-123')"),
		),
		mcplib.WithBoolean("issues_in_epic",
			mcplib.Description("Include the issues in the epic if this issue is an epic"),
		),
	), s.getIssueHandler)

	srv.AddTool(mcplib.NewTool("create_issue",
		mcplib.WithDescription("Create a new Jira issue"),
		mcplib.WithString("project_key", mcplib.Required(), mcplib.Description("Project key (e.g., 'PROJ')")),
		mcplib.WithString("summary", mcplib.Required(), mcplib.Description("Issue summary/title")),
		mcplib.WithString("description", mcplib.Required(), mcplib.Description("Issue description")),
		mcplib.WithString("issue_type", mcplib.Description("Issue type (e.g., 'Bug', 'Task', 'Story'), defaults to 'Task'")),
		mcplib.WithString("priority", mcplib.Required(), mcplib.Description("Issue priority name")),
		mcplib.WithString("work_type", mcplib.Required(), mcplib.Description("Work type for the issue")),
		mcplib.WithString("due_date", mcplib.Required(), mcplib.Description("Due date in YYYY-MM-DD format")),
		mcplib.WithArray("components", mcplib.Required(), mcplib.Description("Component names or aliases"), mcplib.Items(map[string]any{"type": "string"})),
		mcplib.WithString("assignee", mcplib.Description("Username of the assignee")),
		mcplib.WithArray("labels", mcplib.Description("Labels to add"), mcplib.Items(map[string]any{"type": "string"})),
		mcplib.WithArray("fix_versions", mcplib.Description("Fix version names"), mcplib.Items(map[string]any{"type": "string"})),
		mcplib.WithString("security_level", mcplib.Description("Security level name")),
		mcplib.WithString("target_start", mcplib.Description("Target start date in YYYY-MM-DD format")),
		mcplib.WithString("target_end", mcplib.Description("Target end date in YYYY-MM-DD format")),
		mcplib.WithString("original_estimate", mcplib.Description("Original time estimate (e.g., '1h 30m')")),
		mcplib.WithNumber("story_points", mcplib.Description("Story points value")),
		mcplib.WithString("git_commit", mcplib.Description("Full git commit SHA (40 or 64 hex characters)")),
		mcplib.WithString("git_pull_requests", mcplib.Description("Comma-separated pull request URLs")),
		mcplib.WithString("epic_name", mcplib.Description("Epic name, when creating an epic")),
		mcplib.WithString("epic_link", mcplib.Description("Key of the epic to link this issue to")),
		mcplib.WithString("parent_key", mcplib.Description("Parent issue key, when creating a subtask")),
		mcplib.WithString("team", mcplib.Description("Team whose members are added as watchers after creation")),
	), s.createIssueHandler)

	srv.AddTool(mcplib.NewTool("update_issue",
		mcplib.WithDescription("Update fields of an existing Jira issue"),
		mcplib.WithString("issue_key", mcplib.Required(), mcplib.Description("Jira issue key (e.g., 'PROJ-123')")),
		mcplib.WithString("summary", mcplib.Description("New summary/title")),
		mcplib.WithString("description", mcplib.Description("New description")),
		mcplib.WithString("priority", mcplib.Description("New priority name")),
		mcplib.WithString("assignee", mcplib.Description("New assignee username")),
		mcplib.WithArray("labels", mcplib.Description("Replacement label list"), mcplib.Items(map[string]any{"type": "string"})),
		mcplib.WithArray("fix_versions", mcplib.Description("Replacement fix version names"), mcplib.Items(map[string]any{"type": "string"})),
		mcplib.WithArray("components", mcplib.Description("Replacement component names or aliases"), mcplib.Items(map[string]any{"type": "string"})),
		mcplib.WithString("work_type", mcplib.Description("Work type for the issue")),
		mcplib.WithString("security_level", mcplib.Description("Security level name")),
		mcplib.WithString("due_date", mcplib.Description("Due date in YYYY-MM-DD format")),
		mcplib.WithString("target_start", mcplib.Description("Target start date in YYYY-MM-DD format")),
		mcplib.WithString("target_end", mcplib.Description("Target end date in YYYY-MM-DD format")),
		mcplib.WithString("original_estimate", mcplib.Description("Original time estimate (e.g., '1h 30m')")),
		mcplib.WithNumber("story_points", mcplib.Description("Story points value")),
		mcplib.WithString("git_commit", mcplib.Description("Full git commit SHA (40 or 64 hex characters)")),
		mcplib.WithString("git_pull_requests", mcplib.Description("Comma-separated pull request URLs")),
		mcplib.WithString("epic_link", mcplib.Description("Key of the epic to link this issue to")),
	), s.updateIssueHandler)

	srv.AddTool(mcplib.NewTool("transition_issue",
		mcplib.WithDescription("Transition a Jira issue to a new status"),
		mcplib.WithString("issue_key", mcplib.Required(), mcplib.Description("Jira issue key (e.g., 'PROJ-123')")),
		mcplib.WithString("transition", mcplib.Required(), mcplib.Description("Transition name (e.g., 'Done', 'In Progress'), matched case-insensitively")),
	), s.transitionIssueHandler)

	srv.AddTool(mcplib.NewTool("add_comment",
		mcplib.WithDescription("Add a comment to a Jira issue"),
		mcplib.WithString("issue_key", mcplib.Required(), mcplib.Description("Jira issue key (e.g., 'PROJ-123')")),
		mcplib.WithString("comment", mcplib.Required(), mcplib.Description("Comment text")),
		mcplib.WithString("security_level", mcplib.Description("Restrict visibility to this role")),
	), s.addCommentHandler)

	srv.AddTool(mcplib.NewTool("log_time",
		mcplib.WithDescription("Log time spent on a Jira issue"),
		mcplib.WithString("issue_key", mcplib.Required(), mcplib.Description("Jira issue key (e.g., 'PROJ-123')")),
		mcplib.WithString("time_spent", mcplib.Required(), mcplib.Description("Time spent in Jira format (e.g., '1h 30m', '2d 4h', '45m')")),
		mcplib.WithString("comment", mcplib.Required(), mcplib.Description("Comment describing the work done")),
		mcplib.WithString("started", mcplib.Description("Start timestamp in ISO format, defaults to now")),
	), s.logTimeHandler)

	srv.AddTool(mcplib.NewTool("get_projects",
		mcplib.WithDescription("List all Jira projects accessible to the user"),
	), s.getProjectsHandler)

	srv.AddTool(mcplib.NewTool("get_project",
		mcplib.WithDescription("Get a Jira project with its description and lead"),
		mcplib.WithString("project_key", mcplib.Required(), mcplib.Description("Project key (e.g., 'PROJ')")),
	), s.getProjectHandler)

	srv.AddTool(mcplib.NewTool("get_project_components",
		mcplib.WithDescription("List the components defined on a project"),
		mcplib.WithString("project_key", mcplib.Required(), mcplib.Description("Project key (e.g., 'PROJ')")),
	), s.getProjectComponentsHandler)

	srv.AddTool(mcplib.NewTool("create_issue_link",
		mcplib.WithDescription("Create a link between two Jira issues"),
		mcplib.WithString("link_type", mcplib.Required(), mcplib.Description("Link type name (e.g., 'Blocks', 'Relates')")),
		mcplib.WithString("inward_issue", mcplib.Required(), mcplib.Description("Key of the inward issue")),
		mcplib.WithString("outward_issue", mcplib.Required(), mcplib.Description("Key of the outward issue")),
	), s.createIssueLinkHandler)

	srv.AddTool(mcplib.NewTool("get_issue_links",
		mcplib.WithDescription("List the links attached to a Jira issue"),
		mcplib.WithString("issue_key", mcplib.Required(), mcplib.Description("Jira issue key (e.g., 'PROJ-123')")),
	), s.getIssueLinksHandler)

	srv.AddTool(mcplib.NewTool("add_watcher",
		mcplib.WithDescription("Add a watcher to a Jira issue"),
		mcplib.WithString("issue_key", mcplib.Required(), mcplib.Description("Jira issue key (e.g., 'PROJ-123')")),
		mcplib.WithString("username", mcplib.Required(), mcplib.Description("Username to add as a watcher")),
	), s.addWatcherHandler)

	srv.AddTool(mcplib.NewTool("remove_watcher",
		mcplib.WithDescription("Remove a watcher from a Jira issue"),
		mcplib.WithString("issue_key", mcplib.Required(), mcplib.Description("Jira issue key (e.g., 'PROJ-123')")),
		mcplib.WithString("username", mcplib.Required(), mcplib.Description("Username to remove")),
	), s.removeWatcherHandler)

	srv.AddTool(mcplib.NewTool("list_watchers",
		mcplib.WithDescription("List the users watching a Jira issue"),
		mcplib.WithString("issue_key", mcplib.Required(), mcplib.Description("Jira issue key (e.g., 'PROJ-123')")),
	), s.listWatchersHandler)

	srv.AddTool(mcplib.NewTool("add_team_watchers",
		mcplib.WithDescription("Add all members of a configured team as watchers on an issue"),
		mcplib.WithString("issue_key", mcplib.Required(), mcplib.Description("Jira issue key (e.g., 'PROJ-123')")),
		mcplib.WithString("team", mcplib.Required(), mcplib.Description("Configured team name")),
	), s.addTeamWatchersHandler)

	srv.AddTool(mcplib.NewTool("add_team",
		mcplib.WithDescription("Add or replace a team and its member list"),
		mcplib.WithString("team", mcplib.Required(), mcplib.Description("Team name")),
		mcplib.WithArray("members", mcplib.Required(), mcplib.Description("Member usernames"), mcplib.Items(map[string]any{"type": "string"})),
	), s.addTeamHandler)

	srv.AddTool(mcplib.NewTool("remove_team",
		mcplib.WithDescription("Remove a configured team"),
		mcplib.WithString("team", mcplib.Required(), mcplib.Description("Team name")),
	), s.removeTeamHandler)

	srv.AddTool(mcplib.NewTool("get_team_members",
		mcplib.WithDescription("Get the member list of a configured team"),
		mcplib.WithString("team", mcplib.Required(), mcplib.Description("Team name")),
	), s.getTeamMembersHandler)

	srv.AddTool(mcplib.NewTool("list_teams",
		mcplib.WithDescription("List all configured teams and their members"),
	), s.listTeamsHandler)

	srv.AddTool(mcplib.NewTool("add_component_alias",
		mcplib.WithDescription("Add or replace a component alias"),
		mcplib.WithString("alias", mcplib.Required(), mcplib.Description("Alias (case-sensitive)")),
		mcplib.WithString("component", mcplib.Required(), mcplib.Description("Canonical component name")),
	), s.addComponentAliasHandler)

	srv.AddTool(mcplib.NewTool("remove_component_alias",
		mcplib.WithDescription("Remove a component alias"),
		mcplib.WithString("alias", mcplib.Required(), mcplib.Description("Alias to remove")),
	), s.removeComponentAliasHandler)

	srv.AddTool(mcplib.NewTool("list_component_aliases",
		mcplib.WithDescription("List all configured component aliases"),
	), s.listComponentAliasesHandler)

	return srv
}

func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Failed to serialize result: %v", err)), nil
	}
	return mcplib.NewToolResultText(string(data)), nil
}

// optString returns the argument value only when it was explicitly supplied.
func optString(request mcplib.CallToolRequest, key string) *string {
	if v, ok := request.GetArguments()[key]; ok {
		if s, ok := v.(string); ok {
			return &s
		}
	}
	return nil
}

func optFloat(request mcplib.CallToolRequest, key string) *float64 {
	if v, ok := request.GetArguments()[key]; ok {
		if f, ok := v.(float64); ok {
			return &f
		}
	}
	return nil
}

// optStringSlice returns nil when the argument is absent, and an empty slice
// when it was supplied empty, so validation can tell the two apart.
func optStringSlice(request mcplib.CallToolRequest, key string) []string {
	if _, ok := request.GetArguments()[key]; !ok {
		return nil
	}
	return request.GetStringSlice(key, []string{})
}
