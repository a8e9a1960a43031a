// Package config resolves the environment every vcr-manage command runs
// with.
//
// Sources, lowest precedence first:
//
//   - the inherited process environment
//   - the project's .env file (github.com/joho/godotenv)
//   - command-specific overrides (test-api)
//   - KEY=VALUE assignments on the command line
//
// The defaults table then fills anything still missing, following the
// shell semantics of ${VAR:-default} and ${VAR-default}. Project layout overrides (default containers, worker scale)
// come from an optional manage.jsonc read with github.com/tidwall/jsonc.
package config
