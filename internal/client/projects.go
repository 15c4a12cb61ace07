package client

import (
	"context"
)

// ListProjects returns all projects visible to the authenticated user.
func (c *Client) ListProjects(ctx context.Context) ([]ProjectRecord, error) {
	if err := c.gate(ctx); err != nil {
		return nil, err
	}
	list, _, err := c.api.Project.GetListWithContext(ctx)
	if err != nil {
		return nil, opError("list projects", "", err)
	}

	records := []ProjectRecord{}
	if list != nil {
		for _, project := range *list {
			records = append(records, ProjectRecord{
				Key:  project.Key,
				Name: project.Name,
			})
		}
	}
	return records, nil
}

// GetProject fetches one project with its description and lead.
func (c *Client) GetProject(ctx context.Context, projectKey string) (ProjectRecord, error) {
	if err := c.gate(ctx); err != nil {
		return ProjectRecord{}, err
	}
	project, _, err := c.api.Project.GetWithContext(ctx, projectKey)
	if err != nil {
		return ProjectRecord{}, opError("get project", projectKey, err)
	}

	rec := ProjectRecord{
		Key:  project.Key,
		Name: project.Name,
	}
	if project.Description != "" {
		rec.Description = stringPtr(project.Description)
	}
	if project.Lead.DisplayName != "" {
		rec.Lead = stringPtr(project.Lead.DisplayName)
	}
	return rec, nil
}

// GetProjectComponents lists the components defined on a project.
func (c *Client) GetProjectComponents(ctx context.Context, projectKey string) ([]ComponentRecord, error) {
	if err := c.gate(ctx); err != nil {
		return nil, err
	}
	project, _, err := c.api.Project.GetWithContext(ctx, projectKey)
	if err != nil {
		return nil, opError("get project", projectKey, err)
	}

	components := []ComponentRecord{}
	for _, component := range project.Components {
		components = append(components, ComponentRecord{
			ID:          component.ID,
			Name:        component.Name,
			Description: component.Description,
		})
	}
	return components, nil
}
