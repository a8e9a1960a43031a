package compose

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/vcr-manage/internal/execx"
)

type recordingRunner struct {
	cmds []execx.Command
}

func (r *recordingRunner) Run(_ context.Context, cmd execx.Command) execx.Result {
	r.cmds = append(r.cmds, cmd)
	return execx.Result{}
}

func TestDetectBinary(t *testing.T) {
	found := func(string) (string, error) { return "/usr/bin/docker-compose", nil }
	missing := func(string) (string, error) { return "", errors.New("not found") }

	assert.Equal(t, Standalone, DetectBinary(found))
	assert.Equal(t, Plugin, DetectBinary(missing))
}

func TestProjectCommand(t *testing.T) {
	p := &Project{Binary: Plugin, Dir: "/srv/docker", File: "docker-compose.yml", Env: []string{"A=1"}}

	cmd := p.Command("stop", "vcr-api")
	assert.Equal(t, "docker", cmd.Name)
	assert.Equal(t, []string{"compose", "-f", "docker-compose.yml", "stop", "vcr-api"}, cmd.Args)
	assert.Equal(t, "/srv/docker", cmd.Dir)
	assert.Equal(t, []string{"A=1"}, cmd.Env)

	p.Binary = Standalone
	p.File = ""
	assert.Equal(t, "docker-compose logs", p.Command("logs").String())
}

func TestUpArgs(t *testing.T) {
	got := UpArgs(UpOptions{
		Recreate:      true,
		Flags:         []string{"--no-build"},
		ScaleService:  "vcr-worker",
		ScaleReplicas: 2,
		Containers:    []string{"vcr-api", "vcr-worker"},
	})
	assert.Equal(t, []string{"up", "-d", "--force-recreate", "--no-build", "--scale", "vcr-worker=2", "vcr-api", "vcr-worker"}, got)

	assert.Equal(t, []string{"up", "-d", "wallet-db"}, UpArgs(UpOptions{Containers: []string{"wallet-db"}}))
}

func TestRunArgs(t *testing.T) {
	got := RunArgs(RunOptions{Service: "vcr-api", NoDeps: true, Command: []string{"bash", "-c", "true"}})
	assert.Equal(t, []string{"run", "--rm", "--no-deps", "vcr-api", "bash", "-c", "true"}, got)
}

func TestProjectLifecycleCalls(t *testing.T) {
	r := &recordingRunner{}
	p := &Project{Binary: Standalone, Runner: r}
	ctx := context.Background()

	p.Logs(ctx, nil, []string{"vcr-api"})
	p.Stop(ctx, []string{"-t", "5"}, []string{"vcr-db"})
	p.Remove(ctx, nil, []string{"vcr-db"})

	require.Len(t, r.cmds, 3)
	assert.Equal(t, []string{"logs", "-f", "vcr-api"}, r.cmds[0].Args)
	assert.Equal(t, []string{"stop", "-t", "5", "vcr-db"}, r.cmds[1].Args)
	assert.Equal(t, []string{"rm", "-f", "vcr-db"}, r.cmds[2].Args)
}

func TestProjectPath(t *testing.T) {
	p := &Project{Dir: "/srv/docker"}
	assert.Equal(t, "/srv/docker/.build-cache", p.Path(".build-cache"))
	assert.Equal(t, "/tmp/x", p.Path("/tmp/x"))
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docker-compose.yml")
	content := `version: "3"
services:
  vcr-api:
    image: vcr-api
  vcr-db:
    image: postgresql
volumes:
  vcr-data:
  wallet-data:
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	f, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"vcr-api", "vcr-db"}, f.ServiceNames())
}

func TestReadFileErrors(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("services: [unclosed"), 0o644))
	_, err = ReadFile(path)
	assert.Error(t, err)
}
