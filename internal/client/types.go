package client

// IssueRecord is the flat, normalized projection of a backend issue returned
// by every read and write operation. Optional fields are nil when the backend
// provides no value; labels and components are always present, possibly empty.
type IssueRecord struct {
	Key              string            `json:"key"`
	Summary          string            `json:"summary"`
	Description      string            `json:"description"`
	Status           string            `json:"status"`
	Priority         string            `json:"priority"`
	IssueType        string            `json:"issue_type"`
	Project          string            `json:"project"`
	Assignee         *string           `json:"assignee"`
	Reporter         *string           `json:"reporter"`
	Created          string            `json:"created"`
	Updated          string            `json:"updated"`
	Resolution       *string           `json:"resolution"`
	Labels           []string          `json:"labels"`
	Components       []string          `json:"components"`
	Comments         []CommentRecord   `json:"comments"`
	URL              string            `json:"url"`
	FixVersions      []string          `json:"fix_versions"`
	WorkType         *string           `json:"work_type"`
	SecurityLevel    *string           `json:"security_level"`
	DueDate          *string           `json:"due_date"`
	TargetStart      *string           `json:"target_start"`
	TargetEnd        *string           `json:"target_end"`
	OriginalEstimate *string           `json:"original_estimate"`
	StoryPoints      *float64          `json:"story_points"`
	GitCommit        *string           `json:"git_commit"`
	GitPullRequests  *string           `json:"git_pull_requests"`
	Subtasks         []SubtaskRecord   `json:"subtasks"`
	Parent           *ParentRecord     `json:"parent"`
	EpicLink         *string           `json:"epic_link,omitempty"`
	IssueLinks       []IssueLinkRecord `json:"issue_links"`
	IssuesInEpic     []IssueRecord     `json:"issues_in_epic,omitempty"`
}

// CommentRecord is a single issue comment. Comments are created server-side
// and immutable once returned.
type CommentRecord struct {
	ID      string `json:"id"`
	Body    string `json:"body"`
	Author  string `json:"author"`
	Created string `json:"created"`
	Updated string `json:"updated"`
}

// SubtaskRecord is an id-light projection of a subtask, rebuilt each time the
// parent record is built.
type SubtaskRecord struct {
	Key       string `json:"key"`
	Summary   string `json:"summary"`
	Status    string `json:"status"`
	IssueType string `json:"issue_type"`
}

// ParentRecord is an id-light projection of the issue's parent.
type ParentRecord struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

// LinkedIssueRecord is the projection of an issue on the far side of a link.
type LinkedIssueRecord struct {
	Key       string  `json:"key"`
	Summary   string  `json:"summary"`
	Status    string  `json:"status"`
	Priority  string  `json:"priority"`
	IssueType string  `json:"issue_type"`
	Assignee  *string `json:"assignee"`
}

// IssueLinkTypeRecord describes a link type with its human-readable inward and
// outward descriptions. The descriptions are nil when link-type metadata could
// not be resolved.
type IssueLinkTypeRecord struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Inward  *string `json:"inward"`
	Outward *string `json:"outward"`
}

// IssueLinkRecord is one link between two issues.
type IssueLinkRecord struct {
	ID           string              `json:"id"`
	Type         IssueLinkTypeRecord `json:"type"`
	InwardIssue  *LinkedIssueRecord  `json:"inward_issue,omitempty"`
	OutwardIssue *LinkedIssueRecord  `json:"outward_issue,omitempty"`
}

// WorkLogRecord is the result of logging work on an issue.
type WorkLogRecord struct {
	ID        string `json:"id"`
	TimeSpent string `json:"time_spent"`
	Comment   string `json:"comment"`
	Author    string `json:"author"`
	Created   string `json:"created"`
	Started   string `json:"started"`
}

// ProjectRecord is a flat projection of a backend project. Description and
// lead are nil when the backend provides no value; the project list endpoint
// never carries them, only a single-project fetch does.
type ProjectRecord struct {
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Lead        *string `json:"lead"`
}

// ComponentRecord is one component of a project.
type ComponentRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// WatcherFailure captures one member that could not be added as a watcher.
type WatcherFailure struct {
	Member string `json:"member"`
	Error  string `json:"error"`
}

// WatcherResult is the tally of a best-effort batch watcher addition. Partial
// failure is expected and reported, never escalated.
type WatcherResult struct {
	IssueKey    string           `json:"issue_key"`
	Added       []string         `json:"added"`
	Failed      []WatcherFailure `json:"failed"`
	TotalAdded  int              `json:"total_added"`
	TotalFailed int              `json:"total_failed"`
}

// CreateRequest carries the validated parameters for issue creation. Optional
// pointer fields are absent when nil; slice fields are absent when nil and
// invalid when present but empty.
type CreateRequest struct {
	ProjectKey       string
	Summary          string
	Description      string
	IssueType        string
	Priority         string
	WorkType         string
	DueDate          string
	Components       []string
	Assignee         *string
	Labels           []string
	FixVersions      []string
	SecurityLevel    *string
	TargetStart      *string
	TargetEnd        *string
	OriginalEstimate *string
	StoryPoints      *float64
	GitCommit        *string
	GitPullRequests  *string
	EpicName         *string
	EpicLink         *string
	ParentKey        *string
	Team             *string
}

// UpdateRequest carries the partial field set for an issue update. Every field
// is optional; only non-nil fields are written.
type UpdateRequest struct {
	Summary          *string
	Description      *string
	Priority         *string
	Assignee         *string
	Labels           []string
	FixVersions      []string
	Components       []string
	WorkType         *string
	SecurityLevel    *string
	DueDate          *string
	TargetStart      *string
	TargetEnd        *string
	OriginalEstimate *string
	StoryPoints      *float64
	GitCommit        *string
	GitPullRequests  *string
	EpicLink         *string
}
