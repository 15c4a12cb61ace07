package mcp

import (
	"context"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/jiratools/jira-mcp/internal/client"
)

func (s *Server) searchIssuesHandler(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	jql, err := request.RequireString("jql")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Missing or invalid 'jql' argument: %v", err)), nil
	}
	maxResults := request.GetInt("max_results", 0)

	s.log.Info().Str("jql", jql).Msg("searching issues")
	issues, err := s.client.SearchIssues(ctx, jql, maxResults)
	if err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}
	return jsonResult(issues)
}

func (s *Server) getIssueHandler(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	issueKey, err := request.RequireString("issue_key")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Missing or invalid 'issue_key' argument: %v", err)), nil
	}
	issuesInEpic := request.GetBool("issues_in_epic", false)

	issue, err := s.client.GetIssue(ctx, issueKey, issuesInEpic)
	if err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}
	return jsonResult(issue)
}

func (s *Server) createIssueHandler(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	req := client.CreateRequest{
		ProjectKey:       request.GetString("project_key", ""),
		Summary:          request.GetString("summary", ""),
		Description:      request.GetString("description", ""),
		IssueType:        request.GetString("issue_type", ""),
		Priority:         request.GetString("priority", ""),
		WorkType:         request.GetString("work_type", ""),
		DueDate:          request.GetString("due_date", ""),
		Components:       request.GetStringSlice("components", nil),
		Assignee:         optString(request, "assignee"),
		Labels:           optStringSlice(request, "labels"),
		FixVersions:      optStringSlice(request, "fix_versions"),
		SecurityLevel:    optString(request, "security_level"),
		TargetStart:      optString(request, "target_start"),
		TargetEnd:        optString(request, "target_end"),
		OriginalEstimate: optString(request, "original_estimate"),
		StoryPoints:      optFloat(request, "story_points"),
		GitCommit:        optString(request, "git_commit"),
		GitPullRequests:  optString(request, "git_pull_requests"),
		EpicName:         optString(request, "epic_name"),
		EpicLink:         optString(request, "epic_link"),
		ParentKey:        optString(request, "parent_key"),
		Team:             optString(request, "team"),
	}

	s.log.Info().Str("project", req.ProjectKey).Msg("creating issue")
	issue, err := s.client.CreateIssue(ctx, req)
	if err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}
	s.log.Info().Str("issue", issue.Key).Msg("created issue")
	return jsonResult(issue)
}

func (s *Server) updateIssueHandler(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	issueKey, err := request.RequireString("issue_key")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Missing or invalid 'issue_key' argument: %v", err)), nil
	}

	req := client.UpdateRequest{
		Summary:          optString(request, "summary"),
		Description:      optString(request, "description"),
		Priority:         optString(request, "priority"),
		Assignee:         optString(request, "assignee"),
		Labels:           optStringSlice(request, "labels"),
		FixVersions:      optStringSlice(request, "fix_versions"),
		Components:       optStringSlice(request, "components"),
		WorkType:         optString(request, "work_type"),
		SecurityLevel:    optString(request, "security_level"),
		DueDate:          optString(request, "due_date"),
		TargetStart:      optString(request, "target_start"),
		TargetEnd:        optString(request, "target_end"),
		OriginalEstimate: optString(request, "original_estimate"),
		StoryPoints:      optFloat(request, "story_points"),
		GitCommit:        optString(request, "git_commit"),
		GitPullRequests:  optString(request, "git_pull_requests"),
		EpicLink:         optString(request, "epic_link"),
	}

	issue, err := s.client.UpdateIssue(ctx, issueKey, req)
	if err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}
	return jsonResult(issue)
}

func (s *Server) transitionIssueHandler(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	issueKey, err := request.RequireString("issue_key")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Missing or invalid 'issue_key' argument: %v", err)), nil
	}
	transition, err := request.RequireString("transition")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Missing or invalid 'transition' argument: %v", err)), nil
	}

	issue, err := s.client.TransitionIssue(ctx, issueKey, transition)
	if err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}
	return jsonResult(issue)
}

func (s *Server) addCommentHandler(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	issueKey, err := request.RequireString("issue_key")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Missing or invalid 'issue_key' argument: %v", err)), nil
	}
	body, err := request.RequireString("comment")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Missing or invalid 'comment' argument: %v", err)), nil
	}

	comment, err := s.client.AddComment(ctx, issueKey, body, optString(request, "security_level"))
	if err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}
	return jsonResult(comment)
}

func (s *Server) logTimeHandler(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	issueKey, err := request.RequireString("issue_key")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Missing or invalid 'issue_key' argument: %v", err)), nil
	}
	timeSpent, err := request.RequireString("time_spent")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Missing or invalid 'time_spent' argument: %v", err)), nil
	}
	comment, err := request.RequireString("comment")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Missing or invalid 'comment' argument: %v", err)), nil
	}

	workLog, err := s.client.LogWork(ctx, issueKey, timeSpent, comment, optString(request, "started"))
	if err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}
	return jsonResult(workLog)
}

func (s *Server) getProjectsHandler(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	projects, err := s.client.ListProjects(ctx)
	if err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}
	return jsonResult(projects)
}

func (s *Server) getProjectHandler(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	projectKey, err := request.RequireString("project_key")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Missing or invalid 'project_key' argument: %v", err)), nil
	}

	project, err := s.client.GetProject(ctx, projectKey)
	if err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}
	return jsonResult(project)
}

func (s *Server) getProjectComponentsHandler(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	projectKey, err := request.RequireString("project_key")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Missing or invalid 'project_key' argument: %v", err)), nil
	}

	components, err := s.client.GetProjectComponents(ctx, projectKey)
	if err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}
	return jsonResult(components)
}

func (s *Server) createIssueLinkHandler(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	linkType, err := request.RequireString("link_type")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Missing or invalid 'link_type' argument: %v", err)), nil
	}
	inward, err := request.RequireString("inward_issue")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Missing or invalid 'inward_issue' argument: %v", err)), nil
	}
	outward, err := request.RequireString("outward_issue")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Missing or invalid 'outward_issue' argument: %v", err)), nil
	}

	link, err := s.client.CreateIssueLink(ctx, linkType, inward, outward)
	if err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}
	return jsonResult(link)
}

func (s *Server) getIssueLinksHandler(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	issueKey, err := request.RequireString("issue_key")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Missing or invalid 'issue_key' argument: %v", err)), nil
	}

	links, err := s.client.GetIssueLinks(ctx, issueKey)
	if err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}
	return jsonResult(links)
}
