package docker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"

	"github.com/shinji-kodama/vcr-manage/internal/model"
)

// StateRunning is the State docker reports for a running container.
const StateRunning = "running"

// ListProjectContainers returns every container of a compose project,
// stopped ones included, sorted by service and name.
func (c *Client) ListProjectContainers(ctx context.Context, project string) ([]model.ContainerInfo, error) {
	containers, err := c.api.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: projectFilter(project),
	})
	if err != nil {
		return nil, model.WrapCLIError(model.ExitDockerNotRunning, "failed to list Docker containers", err)
	}

	result := make([]model.ContainerInfo, 0, len(containers))
	for _, s := range containers {
		result = append(result, containerToInfo(s))
	}
	model.SortContainers(result)
	return result, nil
}

func containerToInfo(s container.Summary) model.ContainerInfo {
	name := ""
	if len(s.Names) > 0 {
		name = strings.TrimPrefix(s.Names[0], "/")
	}
	return model.ContainerInfo{
		ContainerID:   s.ID,
		ContainerName: name,
		ServiceName:   s.Labels[LabelComposeService],
		Image:         s.Image,
		State:         string(s.State),
		Status:        s.Status,
	}
}

// WaitRunning polls until at least one container of every service in
// services is running, or ctx is done.
func (c *Client) WaitRunning(ctx context.Context, project string, services []string, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		pending, err := c.pendingServices(ctx, project, services)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %s: %w", strings.Join(pending, ", "), ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *Client) pendingServices(ctx context.Context, project string, services []string) ([]string, error) {
	containers, err := c.ListProjectContainers(ctx, project)
	if err != nil {
		return nil, err
	}

	running := make(map[string]bool)
	for _, ci := range containers {
		if ci.State == StateRunning {
			running[ci.ServiceName] = true
		}
	}

	var pending []string
	for _, s := range services {
		if !running[s] {
			pending = append(pending, s)
		}
	}
	return pending, nil
}
