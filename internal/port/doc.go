// Package port checks host port availability before vcr-manage
// publishes a container port, so a clash is reported up front instead
// of as a docker run failure.
package port
