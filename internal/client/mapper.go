package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/andygrunwald/go-jira"
	"github.com/trivago/tgo/tcontainer"
)

const (
	dateFormat      = "2006-01-02"
	timestampFormat = "2006-01-02T15:04:05.999-0700"
)

// ComponentResolver maps component aliases to canonical component names.
type ComponentResolver interface {
	ResolveComponentNames(names []string) []string
}

// ValidateGitCommit checks that a git commit reference is a full SHA-1 or
// SHA-256 hash: hexadecimal, exactly 40 or 64 characters.
func ValidateGitCommit(commit string) error {
	if len(commit) != 40 && len(commit) != 64 {
		return &ValidationError{Field: "git_commit", Reason: "must be a 40 or 64 character hex SHA"}
	}
	for _, c := range commit {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return &ValidationError{Field: "git_commit", Reason: "must be a 40 or 64 character hex SHA"}
		}
	}
	return nil
}

func validateDate(field, value string) error {
	if _, err := time.Parse(dateFormat, value); err != nil {
		return &ValidationError{Field: field, Reason: "must be a date in YYYY-MM-DD format"}
	}
	return nil
}

func requireString(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Reason: "must not be empty"}
	}
	return nil
}

// BuildCreateFields validates a create request and maps it onto the backend
// field payload, resolving component aliases and writing custom-field slots.
func BuildCreateFields(req CreateRequest, resolver ComponentResolver) (*jira.IssueFields, error) {
	if err := requireString("project_key", req.ProjectKey); err != nil {
		return nil, err
	}
	if err := requireString("summary", req.Summary); err != nil {
		return nil, err
	}
	if err := requireString("description", req.Description); err != nil {
		return nil, err
	}
	if err := requireString("priority", req.Priority); err != nil {
		return nil, err
	}
	if err := requireString("work_type", req.WorkType); err != nil {
		return nil, err
	}
	if err := requireString("due_date", req.DueDate); err != nil {
		return nil, err
	}
	if err := validateDate("due_date", req.DueDate); err != nil {
		return nil, err
	}
	if len(req.Components) == 0 {
		return nil, &ValidationError{Field: "components", Reason: "must not be empty"}
	}
	if req.Assignee != nil && strings.TrimSpace(*req.Assignee) == "" {
		return nil, &ValidationError{Field: "assignee", Reason: "must not be empty when supplied"}
	}
	if req.FixVersions != nil && len(req.FixVersions) == 0 {
		return nil, &ValidationError{Field: "fix_versions", Reason: "must not be empty when supplied"}
	}

	issueType := req.IssueType
	if issueType == "" {
		issueType = "Task"
	}

	due, _ := time.Parse(dateFormat, req.DueDate)

	fields := &jira.IssueFields{
		Project:     jira.Project{Key: req.ProjectKey},
		Summary:     req.Summary,
		Description: req.Description,
		Type:        jira.IssueType{Name: issueType},
		Priority:    &jira.Priority{Name: req.Priority},
		Duedate:     jira.Date(due),
		Labels:      req.Labels,
		Unknowns:    tcontainer.NewMarshalMap(),
	}

	for _, name := range resolver.ResolveComponentNames(req.Components) {
		fields.Components = append(fields.Components, &jira.Component{Name: name})
	}
	for _, version := range req.FixVersions {
		fields.FixVersions = append(fields.FixVersions, &jira.FixVersion{Name: version})
	}
	if req.Assignee != nil {
		fields.Assignee = &jira.User{Name: *req.Assignee}
	}
	if req.SecurityLevel != nil {
		fields.Unknowns["security"] = map[string]any{"name": *req.SecurityLevel}
	}
	if req.ParentKey != nil {
		fields.Parent = &jira.Parent{Key: *req.ParentKey}
	}
	if req.OriginalEstimate != nil {
		if _, err := ParseDuration(*req.OriginalEstimate); err != nil {
			return nil, &ValidationError{Field: "original_estimate", Reason: "must be a duration such as '1h 30m'"}
		}
		// The raw duration string travels inside the timetracking sub-object
		// on both the create and update paths.
		fields.TimeTracking = &jira.TimeTracking{OriginalEstimate: *req.OriginalEstimate}
	}

	fields.Unknowns[fieldWorkType] = req.WorkType
	if req.TargetStart != nil {
		if err := validateDate("target_start", *req.TargetStart); err != nil {
			return nil, err
		}
		fields.Unknowns[fieldTargetStart] = *req.TargetStart
	}
	if req.TargetEnd != nil {
		if err := validateDate("target_end", *req.TargetEnd); err != nil {
			return nil, err
		}
		fields.Unknowns[fieldTargetEnd] = *req.TargetEnd
	}
	if req.StoryPoints != nil {
		fields.Unknowns[fieldStoryPoints] = *req.StoryPoints
	}
	if req.GitCommit != nil {
		if err := ValidateGitCommit(*req.GitCommit); err != nil {
			return nil, err
		}
		fields.Unknowns[fieldGitCommit] = *req.GitCommit
	}
	if req.GitPullRequests != nil {
		fields.Unknowns[fieldGitPullRequests] = *req.GitPullRequests
	}
	if req.EpicName != nil {
		fields.Unknowns[fieldEpicName] = *req.EpicName
	}
	if req.EpicLink != nil {
		fields.Unknowns[fieldEpicLink] = *req.EpicLink
	}

	return fields, nil
}

// BuildUpdateFields maps a partial update request onto the arbitrary-fields
// payload used by the issue update endpoint. Only supplied fields are written.
func BuildUpdateFields(req UpdateRequest, resolver ComponentResolver) (map[string]any, error) {
	fields := map[string]any{}

	if req.Summary != nil {
		fields["summary"] = *req.Summary
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Priority != nil {
		fields["priority"] = map[string]any{"name": *req.Priority}
	}
	if req.Assignee != nil {
		fields["assignee"] = map[string]any{"name": *req.Assignee}
	}
	if req.SecurityLevel != nil {
		fields["security"] = map[string]any{"name": *req.SecurityLevel}
	}
	if req.Labels != nil {
		fields["labels"] = req.Labels
	}
	if req.FixVersions != nil {
		versions := make([]map[string]any, 0, len(req.FixVersions))
		for _, v := range req.FixVersions {
			versions = append(versions, map[string]any{"name": v})
		}
		fields["fixVersions"] = versions
	}
	if req.Components != nil {
		components := make([]map[string]any, 0, len(req.Components))
		for _, name := range resolver.ResolveComponentNames(req.Components) {
			components = append(components, map[string]any{"name": name})
		}
		fields["components"] = components
	}
	if req.DueDate != nil {
		if err := validateDate("due_date", *req.DueDate); err != nil {
			return nil, err
		}
		fields["duedate"] = *req.DueDate
	}
	if req.TargetStart != nil {
		if err := validateDate("target_start", *req.TargetStart); err != nil {
			return nil, err
		}
		fields[fieldTargetStart] = *req.TargetStart
	}
	if req.TargetEnd != nil {
		if err := validateDate("target_end", *req.TargetEnd); err != nil {
			return nil, err
		}
		fields[fieldTargetEnd] = *req.TargetEnd
	}
	if req.OriginalEstimate != nil {
		if _, err := ParseDuration(*req.OriginalEstimate); err != nil {
			return nil, &ValidationError{Field: "original_estimate", Reason: "must be a duration such as '1h 30m'"}
		}
		fields["timetracking"] = map[string]any{"originalEstimate": *req.OriginalEstimate}
	}
	if req.WorkType != nil {
		fields[fieldWorkType] = *req.WorkType
	}
	if req.StoryPoints != nil {
		fields[fieldStoryPoints] = *req.StoryPoints
	}
	if req.GitCommit != nil {
		if err := ValidateGitCommit(*req.GitCommit); err != nil {
			return nil, err
		}
		fields[fieldGitCommit] = *req.GitCommit
	}
	if req.GitPullRequests != nil {
		fields[fieldGitPullRequests] = *req.GitPullRequests
	}
	if req.EpicLink != nil {
		fields[fieldEpicLink] = *req.EpicLink
	}

	if len(fields) == 0 {
		return nil, &ValidationError{Field: "fields", Reason: "at least one field must be supplied"}
	}
	return fields, nil
}

// IssueRecordFrom flattens a raw backend issue into the normalized record.
// Missing optional attributes map to nil or an empty collection, never an
// error.
func IssueRecordFrom(issue *jira.Issue, serverURL string) IssueRecord {
	rec := IssueRecord{
		Key:        issue.Key,
		Labels:     []string{},
		Components: []string{},
		Comments:   []CommentRecord{},
		URL:        fmt.Sprintf("%s/browse/%s", serverURL, issue.Key),
	}

	f := issue.Fields
	if f == nil {
		return rec
	}

	rec.Summary = f.Summary
	rec.Description = f.Description
	rec.IssueType = f.Type.Name
	rec.Project = f.Project.Key
	if f.Status != nil {
		rec.Status = f.Status.Name
	}
	if f.Priority != nil {
		rec.Priority = f.Priority.Name
	}
	if f.Assignee != nil {
		rec.Assignee = stringPtr(f.Assignee.DisplayName)
	}
	if f.Reporter != nil {
		rec.Reporter = stringPtr(f.Reporter.DisplayName)
	}
	rec.Created = formatTimestamp(time.Time(f.Created))
	rec.Updated = formatTimestamp(time.Time(f.Updated))
	if f.Resolution != nil {
		rec.Resolution = stringPtr(f.Resolution.Name)
	}
	if f.Labels != nil {
		rec.Labels = f.Labels
	}
	for _, component := range f.Components {
		rec.Components = append(rec.Components, component.Name)
	}
	if f.Comments != nil {
		for _, comment := range f.Comments.Comments {
			rec.Comments = append(rec.Comments, CommentRecord{
				ID:      comment.ID,
				Body:    comment.Body,
				Author:  comment.Author.DisplayName,
				Created: comment.Created,
				Updated: comment.Updated,
			})
		}
	}
	rec.FixVersions = []string{}
	for _, version := range f.FixVersions {
		rec.FixVersions = append(rec.FixVersions, version.Name)
	}
	if !time.Time(f.Duedate).IsZero() {
		rec.DueDate = stringPtr(time.Time(f.Duedate).Format(dateFormat))
	}
	if f.TimeOriginalEstimate > 0 {
		rec.OriginalEstimate = stringPtr(FormatSeconds(f.TimeOriginalEstimate))
	}

	rec.WorkType = ExtractDisplayValue(f.Unknowns[fieldWorkType])
	rec.SecurityLevel = ExtractDisplayValue(f.Unknowns["security"])
	rec.TargetStart = ExtractDisplayValue(f.Unknowns[fieldTargetStart])
	rec.TargetEnd = ExtractDisplayValue(f.Unknowns[fieldTargetEnd])
	if points, ok := f.Unknowns[fieldStoryPoints].(float64); ok {
		rec.StoryPoints = &points
	}
	rec.GitCommit = ExtractDisplayValue(f.Unknowns[fieldGitCommit])
	rec.GitPullRequests = ExtractListDisplay(f.Unknowns[fieldGitPullRequests])

	// The epic link only applies to stories; other issue types reuse the
	// same custom field for unrelated data on some instances.
	if f.Type.Name == "Story" {
		rec.EpicLink = ExtractDisplayValue(f.Unknowns[fieldEpicLink])
	}

	rec.Subtasks = []SubtaskRecord{}
	for _, subtask := range f.Subtasks {
		sub := SubtaskRecord{
			Key:       subtask.Key,
			Summary:   subtask.Fields.Summary,
			IssueType: subtask.Fields.Type.Name,
		}
		if subtask.Fields.Status != nil {
			sub.Status = subtask.Fields.Status.Name
		}
		rec.Subtasks = append(rec.Subtasks, sub)
	}
	if f.Parent != nil {
		rec.Parent = &ParentRecord{ID: f.Parent.ID, Key: f.Parent.Key}
	}

	rec.IssueLinks = issueLinkRecords(f.IssueLinks)

	return rec
}

func issueLinkRecords(links []*jira.IssueLink) []IssueLinkRecord {
	records := []IssueLinkRecord{}
	for _, link := range links {
		if link == nil {
			continue
		}
		rec := IssueLinkRecord{
			ID: link.ID,
			Type: IssueLinkTypeRecord{
				ID:      link.Type.ID,
				Name:    link.Type.Name,
				Inward:  stringPtr(link.Type.Inward),
				Outward: stringPtr(link.Type.Outward),
			},
		}
		if link.InwardIssue != nil {
			rec.InwardIssue = linkedIssueRecord(link.InwardIssue)
		}
		if link.OutwardIssue != nil {
			rec.OutwardIssue = linkedIssueRecord(link.OutwardIssue)
		}
		records = append(records, rec)
	}
	return records
}

func linkedIssueRecord(issue *jira.Issue) *LinkedIssueRecord {
	rec := &LinkedIssueRecord{Key: issue.Key}
	if issue.Fields == nil {
		return rec
	}
	rec.Summary = issue.Fields.Summary
	rec.IssueType = issue.Fields.Type.Name
	if issue.Fields.Status != nil {
		rec.Status = issue.Fields.Status.Name
	}
	if issue.Fields.Priority != nil {
		rec.Priority = issue.Fields.Priority.Name
	}
	if issue.Fields.Assignee != nil {
		rec.Assignee = stringPtr(issue.Fields.Assignee.DisplayName)
	}
	return rec
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timestampFormat)
}
