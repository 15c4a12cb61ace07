package client

import (
	"context"
	"strings"

	"github.com/andygrunwald/go-jira"
)

// CreateIssueLink links two issues with the named link type, then looks up
// the link-type metadata to attach the human-readable inward and outward
// descriptions. A failed metadata lookup leaves the descriptions nil; it is
// not an error.
func (c *Client) CreateIssueLink(ctx context.Context, linkType, inwardKey, outwardKey string) (IssueLinkRecord, error) {
	if err := requireString("link_type", linkType); err != nil {
		return IssueLinkRecord{}, err
	}
	if err := requireString("inward_issue", inwardKey); err != nil {
		return IssueLinkRecord{}, err
	}
	if err := requireString("outward_issue", outwardKey); err != nil {
		return IssueLinkRecord{}, err
	}

	link := &jira.IssueLink{
		Type:         jira.IssueLinkType{Name: linkType},
		InwardIssue:  &jira.Issue{Key: inwardKey},
		OutwardIssue: &jira.Issue{Key: outwardKey},
	}

	if err := c.gate(ctx); err != nil {
		return IssueLinkRecord{}, err
	}
	if _, err := c.api.Issue.AddLinkWithContext(ctx, link); err != nil {
		return IssueLinkRecord{}, opError("link issue", inwardKey, err)
	}

	rec := IssueLinkRecord{
		Type:         IssueLinkTypeRecord{Name: linkType},
		InwardIssue:  &LinkedIssueRecord{Key: inwardKey},
		OutwardIssue: &LinkedIssueRecord{Key: outwardKey},
	}

	if meta := c.lookupLinkType(ctx, linkType); meta != nil {
		rec.Type.ID = meta.ID
		rec.Type.Name = meta.Name
		rec.Type.Inward = stringPtr(meta.Inward)
		rec.Type.Outward = stringPtr(meta.Outward)
	}

	return rec, nil
}

func (c *Client) lookupLinkType(ctx context.Context, name string) *jira.IssueLinkType {
	if err := c.gate(ctx); err != nil {
		return nil
	}
	types, _, err := c.api.IssueLinkType.GetListWithContext(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("could not fetch issue link types")
		return nil
	}
	for i := range types {
		if strings.EqualFold(types[i].Name, name) {
			return &types[i]
		}
	}
	return nil
}

// GetIssueLinks returns the links attached to an issue.
func (c *Client) GetIssueLinks(ctx context.Context, issueKey string) ([]IssueLinkRecord, error) {
	rec, err := c.GetIssue(ctx, issueKey, false)
	if err != nil {
		return nil, err
	}
	return rec.IssueLinks, nil
}
