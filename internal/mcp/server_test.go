package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"github.com/jiratools/jira-mcp/internal/client"
	"github.com/jiratools/jira-mcp/internal/config"
	"github.com/jiratools/jira-mcp/internal/registry"
)

func newTestServer() *Server {
	return New(nil, registry.New(nil, nil), zerolog.Nop())
}

// newBackedServer builds the tool surface around a client pointed at a stub
// Jira backend.
func newBackedServer(t *testing.T, handler http.Handler) *Server {
	t.Helper()

	backend := httptest.NewServer(handler)
	t.Cleanup(backend.Close)

	cfg := &config.Config{
		ServerURL:   backend.URL,
		AccessToken: "token",
		VerifySSL:   true,
		Timeout:     5,
		MaxResults:  50,
	}
	reg := registry.New(nil, nil)
	c, err := client.New(cfg, reg, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return New(c, reg, zerolog.Nop())
}

func requestWith(args map[string]any) mcplib.CallToolRequest {
	req := mcplib.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcplib.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := result.Content[0].(mcplib.TextContent)
	if !ok {
		t.Fatalf("content = %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func TestMCPServerBuilds(t *testing.T) {
	if srv := newTestServer().MCPServer(); srv == nil {
		t.Fatal("MCPServer returned nil")
	}
}

func TestOptString(t *testing.T) {
	req := requestWith(map[string]any{"present": "value", "number": float64(3)})

	if got := optString(req, "present"); got == nil || *got != "value" {
		t.Errorf("optString(present) = %v, want \"value\"", got)
	}
	if got := optString(req, "absent"); got != nil {
		t.Errorf("optString(absent) = %q, want nil", *got)
	}
	if got := optString(req, "number"); got != nil {
		t.Errorf("optString on a non-string = %q, want nil", *got)
	}
}

func TestOptFloat(t *testing.T) {
	req := requestWith(map[string]any{"points": float64(5)})

	if got := optFloat(req, "points"); got == nil || *got != 5 {
		t.Errorf("optFloat(points) = %v, want 5", got)
	}
	if got := optFloat(req, "absent"); got != nil {
		t.Errorf("optFloat(absent) = %v, want nil", *got)
	}
}

// Absent and present-but-empty list arguments must stay distinguishable so
// the mapper can reject an explicitly empty components list.
func TestOptStringSlice(t *testing.T) {
	req := requestWith(map[string]any{
		"filled": []any{"a", "b"},
		"empty":  []any{},
	})

	if got := optStringSlice(req, "filled"); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("optStringSlice(filled) = %v", got)
	}
	if got := optStringSlice(req, "empty"); got == nil || len(got) != 0 {
		t.Errorf("optStringSlice(empty) = %v, want non-nil empty slice", got)
	}
	if got := optStringSlice(req, "absent"); got != nil {
		t.Errorf("optStringSlice(absent) = %v, want nil", got)
	}
}

func TestTeamHandlers(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	result, err := s.addTeamHandler(ctx, requestWith(map[string]any{
		"team":    "frontend",
		"members": []any{"alice", "bob"},
	}))
	if err != nil {
		t.Fatalf("addTeamHandler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("addTeamHandler result: %s", resultText(t, result))
	}

	result, err = s.getTeamMembersHandler(ctx, requestWith(map[string]any{"team": "frontend"}))
	if err != nil {
		t.Fatalf("getTeamMembersHandler returned error: %v", err)
	}
	var members []string
	if err := json.Unmarshal([]byte(resultText(t, result)), &members); err != nil {
		t.Fatalf("failed to decode members: %v", err)
	}
	if len(members) != 2 || members[0] != "alice" {
		t.Errorf("members = %v", members)
	}

	result, err = s.getTeamMembersHandler(ctx, requestWith(map[string]any{"team": "nonexistent"}))
	if err != nil {
		t.Fatalf("getTeamMembersHandler returned error: %v", err)
	}
	if !result.IsError {
		t.Error("expected an error result for an unknown team")
	}
	if !strings.Contains(resultText(t, result), "frontend") {
		t.Errorf("error %q should enumerate known teams", resultText(t, result))
	}

	result, err = s.removeTeamHandler(ctx, requestWith(map[string]any{"team": "frontend"}))
	if err != nil {
		t.Fatalf("removeTeamHandler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("removeTeamHandler result: %s", resultText(t, result))
	}

	result, _ = s.listTeamsHandler(ctx, requestWith(nil))
	var teams map[string][]string
	if err := json.Unmarshal([]byte(resultText(t, result)), &teams); err != nil {
		t.Fatalf("failed to decode teams: %v", err)
	}
	if len(teams) != 0 {
		t.Errorf("teams after removal = %v, want empty", teams)
	}
}

func TestTeamHandlerMissingArgument(t *testing.T) {
	s := newTestServer()

	result, err := s.addTeamHandler(context.Background(), requestWith(map[string]any{}))
	if err != nil {
		t.Fatalf("addTeamHandler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected an error result for a missing team argument")
	}
	if !strings.Contains(resultText(t, result), "team") {
		t.Errorf("error %q should name the missing argument", resultText(t, result))
	}
}

func TestGetProjectHandler(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/project/PROJ", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"key":"PROJ","name":"Project One","description":"The first project","lead":{"displayName":"Alice Doe"}}`))
	})

	s := newBackedServer(t, mux)

	result, err := s.getProjectHandler(context.Background(), requestWith(map[string]any{"project_key": "PROJ"}))
	if err != nil {
		t.Fatalf("getProjectHandler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("getProjectHandler result: %s", resultText(t, result))
	}

	var project struct {
		Key         string  `json:"key"`
		Name        string  `json:"name"`
		Description *string `json:"description"`
		Lead        *string `json:"lead"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &project); err != nil {
		t.Fatalf("failed to decode project: %v", err)
	}
	if project.Key != "PROJ" || project.Name != "Project One" {
		t.Errorf("project = %+v", project)
	}
	if project.Description == nil || *project.Description != "The first project" {
		t.Errorf("description = %v", project.Description)
	}
	if project.Lead == nil || *project.Lead != "Alice Doe" {
		t.Errorf("lead = %v", project.Lead)
	}
}

func TestGetProjectHandlerMissingArgument(t *testing.T) {
	s := newTestServer()

	result, err := s.getProjectHandler(context.Background(), requestWith(map[string]any{}))
	if err != nil {
		t.Fatalf("getProjectHandler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected an error result for a missing project_key argument")
	}
}

func TestComponentAliasHandlers(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	result, err := s.addComponentAliasHandler(ctx, requestWith(map[string]any{
		"alias":     "ui",
		"component": "User Interface",
	}))
	if err != nil {
		t.Fatalf("addComponentAliasHandler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("addComponentAliasHandler result: %s", resultText(t, result))
	}

	result, _ = s.listComponentAliasesHandler(ctx, requestWith(nil))
	var aliases map[string]string
	if err := json.Unmarshal([]byte(resultText(t, result)), &aliases); err != nil {
		t.Fatalf("failed to decode aliases: %v", err)
	}
	if aliases["ui"] != "User Interface" {
		t.Errorf("aliases = %v", aliases)
	}

	result, err = s.removeComponentAliasHandler(ctx, requestWith(map[string]any{"alias": "ui"}))
	if err != nil {
		t.Fatalf("removeComponentAliasHandler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("removeComponentAliasHandler result: %s", resultText(t, result))
	}

	result, _ = s.removeComponentAliasHandler(ctx, requestWith(map[string]any{"alias": "ui"}))
	if !result.IsError {
		t.Error("expected an error result removing an unknown alias")
	}
}
