package docker

import (
	"context"
	"errors"
	"fmt"

	"github.com/docker/docker/api/types/network"
)

// BridgeNetwork is the default network docker attaches containers to.
const BridgeNetwork = "bridge"

// BridgeGateway returns the gateway address of the default bridge
// network. Containers reach services published on the host through it.
func (c *Client) BridgeGateway(ctx context.Context) (string, error) {
	n, err := c.api.NetworkInspect(ctx, BridgeNetwork, network.InspectOptions{})
	if err != nil {
		return "", fmt.Errorf("inspecting %s network: %w", BridgeNetwork, err)
	}
	for _, cfg := range n.IPAM.Config {
		if cfg.Gateway != "" {
			return cfg.Gateway, nil
		}
	}
	return "", errors.New("bridge network has no gateway")
}
