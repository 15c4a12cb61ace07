package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jiratools/jira-mcp/internal/client"
)

const (
	issueResourceTemplate = "jira://issue/{issue_key}"
	issueResourcePrefix   = "jira://issue/"
	projectsResourceURI   = "jira://projects"
)

// registerResources exposes read-only markdown views of issues and projects
// alongside the tool surface.
func (s *Server) registerResources(srv *server.MCPServer) {
	srv.AddResourceTemplate(mcplib.NewResourceTemplate(issueResourceTemplate,
		"Jira issue",
		mcplib.WithTemplateDescription("Formatted view of a single Jira issue"),
		mcplib.WithTemplateMIMEType("text/markdown"),
	), s.issueResource)

	srv.AddResource(mcplib.NewResource(projectsResourceURI,
		"Jira projects",
		mcplib.WithResourceDescription("Formatted list of all accessible Jira projects"),
		mcplib.WithMIMEType("text/markdown"),
	), s.projectsResource)
}

func (s *Server) issueResource(ctx context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	issueKey := strings.TrimPrefix(request.Params.URI, issueResourcePrefix)
	if issueKey == "" || issueKey == request.Params.URI {
		return nil, fmt.Errorf("invalid issue resource URI: %s", request.Params.URI)
	}

	issue, err := s.client.GetIssue(ctx, issueKey, false)
	if err != nil {
		return nil, err
	}

	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/markdown",
			Text:     renderIssue(issue),
		},
	}, nil
}

func (s *Server) projectsResource(ctx context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	projects, err := s.client.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      projectsResourceURI,
			MIMEType: "text/markdown",
			Text:     renderProjects(projects),
		},
	}, nil
}

func orNone(v *string) string {
	if v == nil || *v == "" {
		return "None"
	}
	return *v
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "None"
	}
	return strings.Join(values, ", ")
}

func renderIssue(issue client.IssueRecord) string {
	assignee := "Unassigned"
	if issue.Assignee != nil {
		assignee = *issue.Assignee
	}
	resolution := "Unresolved"
	if issue.Resolution != nil {
		resolution = *issue.Resolution
	}
	storyPoints := "None"
	if issue.StoryPoints != nil {
		storyPoints = strconv.FormatFloat(*issue.StoryPoints, 'f', -1, 64)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s: %s\n\n", issue.Key, issue.Summary)
	fmt.Fprintf(&b, "**Status:** %s\n", issue.Status)
	fmt.Fprintf(&b, "**Priority:** %s\n", issue.Priority)
	fmt.Fprintf(&b, "**Type:** %s\n", issue.IssueType)
	fmt.Fprintf(&b, "**Project:** %s\n", issue.Project)
	fmt.Fprintf(&b, "**Assignee:** %s\n", assignee)
	fmt.Fprintf(&b, "**Reporter:** %s\n\n", orNone(issue.Reporter))
	fmt.Fprintf(&b, "## Description\n%s\n\n", issue.Description)
	b.WriteString("## Details\n")
	fmt.Fprintf(&b, "- **Created:** %s\n", issue.Created)
	fmt.Fprintf(&b, "- **Updated:** %s\n", issue.Updated)
	fmt.Fprintf(&b, "- **Resolution:** %s\n", resolution)
	fmt.Fprintf(&b, "- **Labels:** %s\n", joinOrNone(issue.Labels))
	fmt.Fprintf(&b, "- **Components:** %s\n", joinOrNone(issue.Components))
	fmt.Fprintf(&b, "- **Fix Versions:** %s\n", joinOrNone(issue.FixVersions))
	fmt.Fprintf(&b, "- **Work Type:** %s\n", orNone(issue.WorkType))
	fmt.Fprintf(&b, "- **Security Level:** %s\n", orNone(issue.SecurityLevel))
	fmt.Fprintf(&b, "- **Due Date:** %s\n", orNone(issue.DueDate))
	fmt.Fprintf(&b, "- **Target Start:** %s\n", orNone(issue.TargetStart))
	fmt.Fprintf(&b, "- **Target End:** %s\n", orNone(issue.TargetEnd))
	fmt.Fprintf(&b, "- **Original Estimate:** %s\n", orNone(issue.OriginalEstimate))
	fmt.Fprintf(&b, "- **Story Points:** %s\n", storyPoints)
	fmt.Fprintf(&b, "- **Git Commit:** %s\n", orNone(issue.GitCommit))
	fmt.Fprintf(&b, "- **Git Pull Requests:** %s\n\n", orNone(issue.GitPullRequests))
	fmt.Fprintf(&b, "## Issue Links\n%s\n\n", renderIssueLinks(issue.IssueLinks))
	fmt.Fprintf(&b, "**URL:** %s\n", issue.URL)
	return b.String()
}

func renderIssueLinks(links []client.IssueLinkRecord) string {
	lines := []string{}
	for _, link := range links {
		if link.InwardIssue != nil {
			relation := link.Type.Name
			if link.Type.Inward != nil {
				relation = *link.Type.Inward
			}
			lines = append(lines, fmt.Sprintf("- **%s** [%s]: %s (%s)",
				relation, link.InwardIssue.Key, link.InwardIssue.Summary, link.InwardIssue.Status))
		}
		if link.OutwardIssue != nil {
			relation := link.Type.Name
			if link.Type.Outward != nil {
				relation = *link.Type.Outward
			}
			lines = append(lines, fmt.Sprintf("- **%s** [%s]: %s (%s)",
				relation, link.OutwardIssue.Key, link.OutwardIssue.Summary, link.OutwardIssue.Status))
		}
	}
	if len(lines) == 0 {
		return "None"
	}
	return strings.Join(lines, "\n")
}

func renderProjects(projects []client.ProjectRecord) string {
	var b strings.Builder
	b.WriteString("# Jira Projects\n\n")
	for _, project := range projects {
		fmt.Fprintf(&b, "## %s: %s\n", project.Key, project.Name)
		if project.Description != nil {
			fmt.Fprintf(&b, "%s\n", *project.Description)
		}
		if project.Lead != nil {
			fmt.Fprintf(&b, "**Lead:** %s\n", *project.Lead)
		}
		b.WriteString("\n")
	}
	return b.String()
}
