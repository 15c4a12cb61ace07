package mcp

import (
	"context"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) addWatcherHandler(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	issueKey, err := request.RequireString("issue_key")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Missing or invalid 'issue_key' argument: %v", err)), nil
	}
	username, err := request.RequireString("username")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Missing or invalid 'username' argument: %v", err)), nil
	}

	if err := s.client.AddWatcher(ctx, issueKey, username); err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}
	return mcplib.NewToolResultText(fmt.Sprintf("Added %s as a watcher on %s", username, issueKey)), nil
}

func (s *Server) removeWatcherHandler(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	issueKey, err := request.RequireString("issue_key")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Missing or invalid 'issue_key' argument: %v", err)), nil
	}
	username, err := request.RequireString("username")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Missing or invalid 'username' argument: %v", err)), nil
	}

	if err := s.client.RemoveWatcher(ctx, issueKey, username); err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}
	return mcplib.NewToolResultText(fmt.Sprintf("Removed %s from the watchers of %s", username, issueKey)), nil
}

func (s *Server) listWatchersHandler(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	issueKey, err := request.RequireString("issue_key")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Missing or invalid 'issue_key' argument: %v", err)), nil
	}

	watchers, err := s.client.ListWatchers(ctx, issueKey)
	if err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}
	return jsonResult(watchers)
}

func (s *Server) addTeamWatchersHandler(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	issueKey, err := request.RequireString("issue_key")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Missing or invalid 'issue_key' argument: %v", err)), nil
	}
	team, err := request.RequireString("team")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Missing or invalid 'team' argument: %v", err)), nil
	}

	members, err := s.reg.TeamMembers(team)
	if err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}

	result := s.client.AddTeamAsWatchers(ctx, issueKey, members)
	return jsonResult(result)
}

func (s *Server) addTeamHandler(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	team, err := request.RequireString("team")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Missing or invalid 'team' argument: %v", err)), nil
	}
	members := request.GetStringSlice("members", []string{})

	s.reg.AddTeam(team, members)
	return mcplib.NewToolResultText(fmt.Sprintf("Team %q now has %d members", team, len(members))), nil
}

func (s *Server) removeTeamHandler(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	team, err := request.RequireString("team")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Missing or invalid 'team' argument: %v", err)), nil
	}

	if err := s.reg.RemoveTeam(team); err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}
	return mcplib.NewToolResultText(fmt.Sprintf("Removed team %q", team)), nil
}

func (s *Server) getTeamMembersHandler(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	team, err := request.RequireString("team")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Missing or invalid 'team' argument: %v", err)), nil
	}

	members, err := s.reg.TeamMembers(team)
	if err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}
	return jsonResult(members)
}

func (s *Server) listTeamsHandler(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return jsonResult(s.reg.ListTeams())
}

func (s *Server) addComponentAliasHandler(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	alias, err := request.RequireString("alias")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Missing or invalid 'alias' argument: %v", err)), nil
	}
	component, err := request.RequireString("component")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Missing or invalid 'component' argument: %v", err)), nil
	}

	s.reg.AddComponentAlias(alias, component)
	return mcplib.NewToolResultText(fmt.Sprintf("Alias %q now maps to %q", alias, component)), nil
}

func (s *Server) removeComponentAliasHandler(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	alias, err := request.RequireString("alias")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Missing or invalid 'alias' argument: %v", err)), nil
	}

	if err := s.reg.RemoveComponentAlias(alias); err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}
	return mcplib.NewToolResultText(fmt.Sprintf("Removed alias %q", alias)), nil
}

func (s *Server) listComponentAliasesHandler(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return jsonResult(s.reg.ListComponentAliases())
}
