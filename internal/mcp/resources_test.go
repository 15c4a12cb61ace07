package mcp

import (
	"context"
	"net/http"
	"strings"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/jiratools/jira-mcp/internal/client"
)

func strPtr(s string) *string { return &s }

func TestRenderIssue(t *testing.T) {
	points := 5.0
	issue := client.IssueRecord{
		Key:         "PROJ-1",
		Summary:     "Fix login",
		Description: "Users cannot log in.",
		Status:      "In Progress",
		Priority:    "High",
		IssueType:   "Bug",
		Project:     "PROJ",
		Reporter:    strPtr("Bob Roe"),
		Labels:      []string{"auth", "urgent"},
		Components:  []string{"User Interface"},
		FixVersions: []string{},
		StoryPoints: &points,
		URL:         "https://jira.example.com/browse/PROJ-1",
		IssueLinks: []client.IssueLinkRecord{
			{
				Type: client.IssueLinkTypeRecord{
					Name:    "Blocks",
					Outward: strPtr("blocks"),
				},
				OutwardIssue: &client.LinkedIssueRecord{
					Key:     "PROJ-2",
					Summary: "Deploy fix",
					Status:  "Open",
				},
			},
		},
	}

	text := renderIssue(issue)

	for _, want := range []string{
		"# PROJ-1: Fix login",
		"**Status:** In Progress",
		"**Assignee:** Unassigned",
		"**Reporter:** Bob Roe",
		"- **Resolution:** Unresolved",
		"- **Labels:** auth, urgent",
		"- **Fix Versions:** None",
		"- **Story Points:** 5",
		"- **blocks** [PROJ-2]: Deploy fix (Open)",
		"**URL:** https://jira.example.com/browse/PROJ-1",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered issue missing %q:\n%s", want, text)
		}
	}
}

func TestRenderIssueLinksEmpty(t *testing.T) {
	if got := renderIssueLinks(nil); got != "None" {
		t.Errorf("renderIssueLinks(nil) = %q, want \"None\"", got)
	}
}

func TestRenderProjects(t *testing.T) {
	projects := []client.ProjectRecord{
		{Key: "PROJ", Name: "Project One", Description: strPtr("The first project"), Lead: strPtr("Alice Doe")},
		{Key: "BARE", Name: "Bare Project"},
	}

	text := renderProjects(projects)

	for _, want := range []string{
		"# Jira Projects",
		"## PROJ: Project One",
		"The first project",
		"**Lead:** Alice Doe",
		"## BARE: Bare Project",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered projects missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "**Lead:** \n") {
		t.Error("missing lead should be omitted, not rendered empty")
	}
}

func readResourceRequest(uri string) mcplib.ReadResourceRequest {
	req := mcplib.ReadResourceRequest{}
	req.Params.URI = uri
	return req
}

func TestIssueResource(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/issue/PROJ-1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"key":"PROJ-1","fields":{"summary":"Fix login","issuetype":{"name":"Bug"},"project":{"key":"PROJ"},"status":{"name":"Open"}}}`))
	})

	s := newBackedServer(t, mux)

	contents, err := s.issueResource(context.Background(), readResourceRequest("jira://issue/PROJ-1"))
	if err != nil {
		t.Fatalf("issueResource returned error: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d entries, want 1", len(contents))
	}
	text, ok := contents[0].(mcplib.TextResourceContents)
	if !ok {
		t.Fatalf("contents[0] = %T, want TextResourceContents", contents[0])
	}
	if text.URI != "jira://issue/PROJ-1" || text.MIMEType != "text/markdown" {
		t.Errorf("uri/mime = %q/%q", text.URI, text.MIMEType)
	}
	if !strings.Contains(text.Text, "# PROJ-1: Fix login") {
		t.Errorf("rendered resource missing the issue header:\n%s", text.Text)
	}
}

func TestIssueResourceInvalidURI(t *testing.T) {
	s := newTestServer()

	if _, err := s.issueResource(context.Background(), readResourceRequest("jira://issue/")); err == nil {
		t.Error("expected error for an empty issue key, got nil")
	}
	if _, err := s.issueResource(context.Background(), readResourceRequest("jira://other/PROJ-1")); err == nil {
		t.Error("expected error for a foreign URI scheme, got nil")
	}
}

func TestProjectsResource(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/project", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"key":"PROJ","name":"Project One"},{"key":"OPS","name":"Operations"}]`))
	})

	s := newBackedServer(t, mux)

	contents, err := s.projectsResource(context.Background(), readResourceRequest(projectsResourceURI))
	if err != nil {
		t.Fatalf("projectsResource returned error: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d entries, want 1", len(contents))
	}
	text, ok := contents[0].(mcplib.TextResourceContents)
	if !ok {
		t.Fatalf("contents[0] = %T, want TextResourceContents", contents[0])
	}
	if !strings.Contains(text.Text, "## PROJ: Project One") || !strings.Contains(text.Text, "## OPS: Operations") {
		t.Errorf("rendered resource missing project headings:\n%s", text.Text)
	}
}
