package docker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/volume"

	"github.com/shinji-kodama/vcr-manage/internal/model"
)

// ProjectVolumes returns the names of every volume starting with prefix,
// sorted. The daemon's name filter is a substring match, so the prefix
// is checked again here.
func (c *Client) ProjectVolumes(ctx context.Context, prefix string) ([]string, error) {
	if prefix == "" {
		return nil, errors.New("volume prefix must not be empty")
	}

	resp, err := c.api.VolumeList(ctx, volume.ListOptions{
		Filters: filters.NewArgs(filters.Arg("name", prefix)),
	})
	if err != nil {
		return nil, model.WrapCLIError(model.ExitDockerNotRunning, "failed to list Docker volumes", err)
	}

	var names []string
	for _, v := range resp.Volumes {
		if v != nil && strings.HasPrefix(v.Name, prefix) {
			names = append(names, v.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// RemoveVolumes removes each named volume. Every volume is attempted;
// the failures are joined.
func (c *Client) RemoveVolumes(ctx context.Context, names []string) error {
	var errs []error
	for _, name := range names {
		if err := c.api.VolumeRemove(ctx, name, false); err != nil {
			errs = append(errs, fmt.Errorf("removing volume %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
