package docker

import (
	"github.com/docker/docker/api/types/filters"
)

// Labels docker-compose sets on every container it creates.
const (
	LabelComposeProject = "com.docker.compose.project"
	LabelComposeService = "com.docker.compose.service"
)

// projectFilter matches the containers of one compose project.
func projectFilter(project string) filters.Args {
	return filters.NewArgs(filters.Arg("label", LabelComposeProject+"="+project))
}
