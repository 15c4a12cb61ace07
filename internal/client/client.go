// Package client wraps the Jira backend behind normalized request and
// response shapes. All field translation between the stable tool parameters
// and Jira's heterogeneous field representation happens here.
package client

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/andygrunwald/go-jira"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jiratools/jira-mcp/internal/config"
	"github.com/jiratools/jira-mcp/internal/registry"
)

// Client is the gateway to the Jira backend. Every call passes through an
// admission gate of 10 requests per rolling second; callers over the limit
// wait for a slot instead of failing.
type Client struct {
	api        *jira.Client
	reg        *registry.Registry
	limiter    *rate.Limiter
	log        zerolog.Logger
	serverURL  string
	maxResults int
}

// New builds a Client from configuration. The presence of an email selects
// cloud basic auth (email + API token); otherwise the token is sent as a
// bearer personal access token.
func New(cfg *config.Config, reg *registry.Registry, log zerolog.Logger) (*Client, error) {
	transport := &http.Transport{}
	if !cfg.VerifySSL {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	var httpClient *http.Client
	if cfg.Email != "" {
		tp := jira.BasicAuthTransport{
			Username:  cfg.Email,
			Password:  cfg.AccessToken,
			Transport: transport,
		}
		httpClient = tp.Client()
	} else {
		tp := jira.BearerAuthTransport{
			Token:     cfg.AccessToken,
			Transport: transport,
		}
		httpClient = tp.Client()
	}
	httpClient.Timeout = time.Duration(cfg.Timeout) * time.Second

	api, err := jira.NewClient(httpClient, cfg.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create Jira client: %w", err)
	}

	return &Client{
		api:        api,
		reg:        reg,
		limiter:    rate.NewLimiter(rate.Limit(10), 10),
		log:        log,
		serverURL:  cfg.ServerURL,
		maxResults: cfg.MaxResults,
	}, nil
}

// Registry returns the team and component-alias registry the client resolves
// names against.
func (c *Client) Registry() *registry.Registry { return c.reg }

func (c *Client) gate(ctx context.Context) error {
	return c.limiter.Wait(ctx)
}

// Connect verifies the session by fetching the authenticated user. A failure
// here is fatal to startup.
func (c *Client) Connect(ctx context.Context) error {
	if err := c.gate(ctx); err != nil {
		return err
	}
	if _, _, err := c.api.User.GetSelfWithContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to Jira: %w", err)
	}
	c.log.Info().Str("server", c.serverURL).Msg("connected to Jira")
	return nil
}

// SearchIssues runs a JQL search and returns normalized records. A
// non-positive maxResults falls back to the configured default.
func (c *Client) SearchIssues(ctx context.Context, jql string, maxResults int) ([]IssueRecord, error) {
	if maxResults <= 0 {
		maxResults = c.maxResults
	}
	if err := c.gate(ctx); err != nil {
		return nil, err
	}

	issues, _, err := c.api.Issue.SearchWithContext(ctx, jql, &jira.SearchOptions{
		MaxResults: maxResults,
		Expand:     "changelog",
	})
	if err != nil {
		return nil, opError("search issues", "", err)
	}

	records := make([]IssueRecord, 0, len(issues))
	for i := range issues {
		records = append(records, IssueRecordFrom(&issues[i], c.serverURL))
	}
	return records, nil
}

// GetIssue fetches one issue. When issuesInEpic is set and the issue is an
// epic, the issues inside the epic are attached via a secondary search;
// failures there degrade to an empty list.
func (c *Client) GetIssue(ctx context.Context, issueKey string, issuesInEpic bool) (IssueRecord, error) {
	if err := c.gate(ctx); err != nil {
		return IssueRecord{}, err
	}

	issue, _, err := c.api.Issue.GetWithContext(ctx, issueKey, &jira.GetQueryOptions{
		Expand: "changelog,transitions,comments,issuelinks",
	})
	if err != nil {
		return IssueRecord{}, opError("get issue", issueKey, err)
	}

	rec := IssueRecordFrom(issue, c.serverURL)

	if issuesInEpic && strings.EqualFold(rec.IssueType, "Epic") {
		inEpic, err := c.SearchIssues(ctx, fmt.Sprintf("%q = %s", "Epic Link", issueKey), 0)
		if err != nil {
			c.log.Warn().Err(err).Str("issue", issueKey).Msg("could not fetch issues in epic")
			inEpic = []IssueRecord{}
		}
		rec.IssuesInEpic = inEpic
	}

	return rec, nil
}

// CreateIssue validates and maps the request, creates the issue, and returns
// the normalized record of the created issue. When a team is supplied, its
// members are attached as watchers afterwards; that step is best effort and
// never fails the creation.
func (c *Client) CreateIssue(ctx context.Context, req CreateRequest) (IssueRecord, error) {
	fields, err := BuildCreateFields(req, c.reg)
	if err != nil {
		return IssueRecord{}, err
	}

	if err := c.gate(ctx); err != nil {
		return IssueRecord{}, err
	}
	created, _, err := c.api.Issue.CreateWithContext(ctx, &jira.Issue{Fields: fields})
	if err != nil {
		return IssueRecord{}, opError("create issue", "", err)
	}

	if req.Team != nil {
		c.attachTeamWatchers(ctx, created.Key, *req.Team)
	}

	return c.GetIssue(ctx, created.Key, false)
}

func (c *Client) attachTeamWatchers(ctx context.Context, issueKey, team string) {
	members, err := c.reg.TeamMembers(team)
	if err != nil {
		c.log.Warn().Err(err).Str("issue", issueKey).Msg("could not attach team watchers")
		return
	}
	result := c.AddTeamAsWatchers(ctx, issueKey, members)
	if result.TotalFailed > 0 {
		c.log.Warn().
			Str("issue", issueKey).
			Str("team", team).
			Int("added", result.TotalAdded).
			Int("failed", result.TotalFailed).
			Msg("some team members could not be added as watchers")
	}
}

// UpdateIssue applies a partial update and returns the refreshed record.
func (c *Client) UpdateIssue(ctx context.Context, issueKey string, req UpdateRequest) (IssueRecord, error) {
	fields, err := BuildUpdateFields(req, c.reg)
	if err != nil {
		return IssueRecord{}, err
	}

	if err := c.gate(ctx); err != nil {
		return IssueRecord{}, err
	}
	if _, err := c.api.Issue.UpdateIssueWithContext(ctx, issueKey, map[string]any{"fields": fields}); err != nil {
		return IssueRecord{}, opError("update issue", issueKey, err)
	}

	return c.GetIssue(ctx, issueKey, false)
}

// TransitionIssue moves an issue through the named transition. The name is
// matched case-insensitively against the transitions currently available; an
// unmatched name fails listing the available set.
func (c *Client) TransitionIssue(ctx context.Context, issueKey, transitionName string) (IssueRecord, error) {
	if err := c.gate(ctx); err != nil {
		return IssueRecord{}, err
	}
	transitions, _, err := c.api.Issue.GetTransitionsWithContext(ctx, issueKey)
	if err != nil {
		return IssueRecord{}, opError("get transitions for", issueKey, err)
	}

	var transitionID string
	available := make([]string, 0, len(transitions))
	for _, t := range transitions {
		available = append(available, t.Name)
		if strings.EqualFold(t.Name, transitionName) {
			transitionID = t.ID
		}
	}
	if transitionID == "" {
		return IssueRecord{}, &NotFoundError{Kind: "transition", Name: transitionName, Available: available}
	}

	if err := c.gate(ctx); err != nil {
		return IssueRecord{}, err
	}
	if _, err := c.api.Issue.DoTransitionWithContext(ctx, issueKey, transitionID); err != nil {
		return IssueRecord{}, opError("transition issue", issueKey, err)
	}

	return c.GetIssue(ctx, issueKey, false)
}

// AddComment adds a comment to an issue, optionally restricted to a security
// role.
func (c *Client) AddComment(ctx context.Context, issueKey, body string, securityLevel *string) (CommentRecord, error) {
	if strings.TrimSpace(body) == "" {
		return CommentRecord{}, &ValidationError{Field: "comment", Reason: "must not be empty"}
	}

	comment := &jira.Comment{Body: body}
	if securityLevel != nil {
		comment.Visibility = jira.CommentVisibility{Type: "role", Value: *securityLevel}
	}

	if err := c.gate(ctx); err != nil {
		return CommentRecord{}, err
	}
	added, _, err := c.api.Issue.AddCommentWithContext(ctx, issueKey, comment)
	if err != nil {
		return CommentRecord{}, opError("add comment to", issueKey, err)
	}

	return CommentRecord{
		ID:      added.ID,
		Body:    added.Body,
		Author:  added.Author.DisplayName,
		Created: added.Created,
		Updated: added.Updated,
	}, nil
}

// LogWork records time spent on an issue. The duration travels to the backend
// as the raw string; it is parsed locally only to reject malformed input
// before the call.
func (c *Client) LogWork(ctx context.Context, issueKey, timeSpent, comment string, started *string) (WorkLogRecord, error) {
	if _, err := ParseDuration(timeSpent); err != nil {
		return WorkLogRecord{}, err
	}

	record := &jira.WorklogRecord{
		TimeSpent: timeSpent,
		Comment:   comment,
	}
	if started != nil {
		t, err := parseStarted(*started)
		if err != nil {
			return WorkLogRecord{}, err
		}
		record.Started = t
	}

	if err := c.gate(ctx); err != nil {
		return WorkLogRecord{}, err
	}
	added, _, err := c.api.Issue.AddWorklogRecordWithContext(ctx, issueKey, record)
	if err != nil {
		return WorkLogRecord{}, opError("log work on", issueKey, err)
	}

	result := WorkLogRecord{
		ID:        added.ID,
		TimeSpent: added.TimeSpent,
		Comment:   added.Comment,
	}
	if added.Author != nil {
		result.Author = added.Author.DisplayName
	}
	if added.Created != nil {
		result.Created = formatTimestamp(time.Time(*added.Created))
	}
	if added.Started != nil {
		result.Started = formatTimestamp(time.Time(*added.Started))
	}
	return result, nil
}

func parseStarted(s string) (*jira.Time, error) {
	for _, layout := range []string{timestampFormat, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			jt := jira.Time(t)
			return &jt, nil
		}
	}
	return nil, &ValidationError{Field: "started", Reason: "must be an ISO timestamp"}
}
