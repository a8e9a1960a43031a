// Package docker wraps the Docker Engine SDK for the operations
// vcr-manage performs without going through docker-compose:
//
//   - client creation with socket detection (Linux, macOS, Windows)
//   - locating the host address through the bridge network gateway
//   - listing and removing the compose project's named volumes
//   - listing project containers by their compose labels, and waiting
//     for services to reach the running state
//
// The SDK client is created with API version negotiation so older
// daemons keep working.
package docker
