package client

import (
	"context"
)

// AddWatcher subscribes a user to an issue's notifications.
func (c *Client) AddWatcher(ctx context.Context, issueKey, username string) error {
	if err := c.gate(ctx); err != nil {
		return err
	}
	if _, err := c.api.Issue.AddWatcherWithContext(ctx, issueKey, username); err != nil {
		return opError("add watcher to", issueKey, err)
	}
	return nil
}

// RemoveWatcher unsubscribes a user from an issue's notifications.
func (c *Client) RemoveWatcher(ctx context.Context, issueKey, username string) error {
	if err := c.gate(ctx); err != nil {
		return err
	}
	if _, err := c.api.Issue.RemoveWatcherWithContext(ctx, issueKey, username); err != nil {
		return opError("remove watcher from", issueKey, err)
	}
	return nil
}

// ListWatchers returns the display names of the users watching an issue.
func (c *Client) ListWatchers(ctx context.Context, issueKey string) ([]string, error) {
	if err := c.gate(ctx); err != nil {
		return nil, err
	}
	users, _, err := c.api.Issue.GetWatchersWithContext(ctx, issueKey)
	if err != nil {
		return nil, opError("list watchers of", issueKey, err)
	}

	names := []string{}
	if users != nil {
		for _, user := range *users {
			names = append(names, user.DisplayName)
		}
	}
	return names, nil
}

// AddTeamAsWatchers adds each member independently and tallies the outcome.
// Partial failure is expected and reported in the result, never escalated;
// nothing is retried or rolled back.
func (c *Client) AddTeamAsWatchers(ctx context.Context, issueKey string, members []string) WatcherResult {
	result := WatcherResult{
		IssueKey: issueKey,
		Added:    []string{},
		Failed:   []WatcherFailure{},
	}

	for _, member := range members {
		if err := c.AddWatcher(ctx, issueKey, member); err != nil {
			result.Failed = append(result.Failed, WatcherFailure{Member: member, Error: err.Error()})
			continue
		}
		result.Added = append(result.Added, member)
	}

	result.TotalAdded = len(result.Added)
	result.TotalFailed = len(result.Failed)
	return result
}
