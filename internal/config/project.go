package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/shinji-kodama/vcr-manage/internal/model"
)

// ProjectFile is the optional per-checkout settings file. It is JSON
// with comments.
const ProjectFile = "manage.jsonc"

// Project describes the compose project layout. Every field has a
// built-in default; manage.jsonc only needs the fields it changes.
type Project struct {
	// DefaultContainers are targeted when no container names are given.
	DefaultContainers []string `json:"defaultContainers,omitempty"`

	// DatabaseContainers are started by startdb and stopped by stopdb.
	DatabaseContainers []string `json:"databaseContainers,omitempty"`

	// APIService runs shell, api and test-api.
	APIService string `json:"apiService,omitempty"`

	// WorkerService is scaled to WorkerReplicas on up/start/restart.
	WorkerService  string `json:"workerService,omitempty"`
	WorkerReplicas int    `json:"workerReplicas,omitempty"`

	// ComposeFile is relative to the project directory and passed with -f.
	// Empty leaves the choice to docker-compose (COMPOSE_FILE, or
	// docker-compose.yml plus docker-compose.override.yml).
	ComposeFile string `json:"composeFile,omitempty"`

	// BuildCacheDir is relative to the project directory and removed by down.
	BuildCacheDir string `json:"buildCacheDir,omitempty"`
}

// DefaultProject returns the built-in project layout.
func DefaultProject() Project {
	return Project{
		DefaultContainers:  model.DefaultContainers(),
		DatabaseContainers: model.DatabaseContainers(),
		APIService:         model.ServiceAPI,
		WorkerService:      model.ServiceWorker,
		WorkerReplicas:     model.DefaultWorkerReplicas,
		BuildCacheDir:      ".build-cache",
	}
}

// Compose file names docker-compose looks for without -f.
const (
	DefaultComposeFile  = "docker-compose.yml"
	OverrideComposeFile = "docker-compose.override.yml"
	composeFileVar      = "COMPOSE_FILE"
	composeSeparatorVar = "COMPOSE_PATH_SEPARATOR"
)

// ComposeFiles returns the compose files docker-compose will read for
// this project, relative to the project directory. Files that do not
// exist are included; callers check.
func (p Project) ComposeFiles(env *Env) []string {
	if p.ComposeFile != "" {
		return []string{p.ComposeFile}
	}
	if v := env.Get(composeFileVar); v != "" {
		sep := env.Get(composeSeparatorVar)
		if sep == "" {
			sep = string(os.PathListSeparator)
		}
		var files []string
		for _, f := range strings.Split(v, sep) {
			if f != "" {
				files = append(files, f)
			}
		}
		return files
	}
	return []string{DefaultComposeFile, OverrideComposeFile}
}

// LoadProject reads manage.jsonc from dir and fills unset fields from
// DefaultProject. A missing file yields the defaults.
func LoadProject(dir string) (Project, error) {
	p := DefaultProject()

	path := filepath.Join(dir, ProjectFile)
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var loaded Project
	if err := json.Unmarshal(jsonc.ToJSON(raw), &loaded); err != nil {
		return p, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if loaded.WorkerReplicas < 0 {
		return p, fmt.Errorf("%s: workerReplicas must not be negative", path)
	}

	if len(loaded.DefaultContainers) > 0 {
		p.DefaultContainers = loaded.DefaultContainers
	}
	if len(loaded.DatabaseContainers) > 0 {
		p.DatabaseContainers = loaded.DatabaseContainers
	}
	if loaded.APIService != "" {
		p.APIService = loaded.APIService
	}
	if loaded.WorkerService != "" {
		p.WorkerService = loaded.WorkerService
	}
	if loaded.WorkerReplicas > 0 {
		p.WorkerReplicas = loaded.WorkerReplicas
	}
	if loaded.ComposeFile != "" {
		p.ComposeFile = loaded.ComposeFile
	}
	if loaded.BuildCacheDir != "" {
		p.BuildCacheDir = loaded.BuildCacheDir
	}
	return p, nil
}
