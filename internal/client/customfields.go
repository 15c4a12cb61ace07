package client

// Custom field identifiers for the target Jira instance. These address
// non-standard attribute slots and must match the instance schema; a
// deployment against a different instance replaces this table only.
const (
	fieldWorkType        = "customfield_12320040"
	fieldTargetStart     = "customfield_12313941"
	fieldTargetEnd       = "customfield_12313942"
	fieldStoryPoints     = "customfield_12310243"
	fieldGitCommit       = "customfield_12317372"
	fieldGitPullRequests = "customfield_12310220"
	fieldEpicLink        = "customfield_12311140"
	fieldEpicName        = "customfield_12311141"
)
