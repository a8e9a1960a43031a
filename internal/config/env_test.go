package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvSetKeepsInsertionOrder(t *testing.T) {
	env := NewEnv()
	env.Set("B", "1", SourceProcess)
	env.Set("A", "2", SourceProcess)
	env.Set("B", "3", SourceArgument)
	env.Set("", "ignored", SourceArgument)

	assert.Equal(t, []string{"B=3", "A=2"}, env.Environ())
	assert.Equal(t, SourceArgument, env.Source("B"))

	entries := env.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "A", entries[0].Name)
}

func TestEnvFromEnviron(t *testing.T) {
	env := EnvFromEnviron([]string{"A=1", "EMPTY=", "broken", "=x", "B=a=b"})

	v, ok := env.Lookup("EMPTY")
	assert.True(t, ok)
	assert.Empty(t, v)
	assert.Equal(t, "a=b", env.Get("B"))

	_, ok = env.Lookup("broken")
	assert.False(t, ok)
	assert.Len(t, env.Environ(), 3)
}

func TestEnvExpand(t *testing.T) {
	env := EnvFromEnviron([]string{"DOCKERHOST=10.0.0.1", "PORT=9000"})
	assert.Equal(t, "http://10.0.0.1:9000", env.Expand("http://${DOCKERHOST}:$PORT"))
	assert.Equal(t, "x::y", env.Expand("x:${MISSING}:y"))
}

func TestReadDotEnv(t *testing.T) {
	dir := t.TempDir()

	got, err := ReadDotEnv(filepath.Join(dir, DotEnvFile))
	require.NoError(t, err)
	assert.Nil(t, got, "missing file is not an error")

	content := "# comment\nTHEME=ongov\nexport LEDGER_URL=http://ledger:9000\nQUOTED=\"a b\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, DotEnvFile), []byte(content), 0o644))

	got, err = ReadDotEnv(filepath.Join(dir, DotEnvFile))
	require.NoError(t, err)
	assert.Equal(t, []Assignment{
		{Name: "LEDGER_URL", Value: "http://ledger:9000"},
		{Name: "QUOTED", Value: "a b"},
		{Name: "THEME", Value: "ongov"},
	}, got)
}

func TestLoadProject(t *testing.T) {
	dir := t.TempDir()

	p, err := LoadProject(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultProject(), p)

	content := `{
		// scale the worker down for laptops
		"workerReplicas": 1,
		"defaultContainers": ["vcr-api", "vcr-db"], // trailing comment
		"buildCacheDir": "tmp/cache",
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFile), []byte(content), 0o644))

	p, err = LoadProject(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, p.WorkerReplicas)
	assert.Equal(t, []string{"vcr-api", "vcr-db"}, p.DefaultContainers)
	assert.Equal(t, "tmp/cache", p.BuildCacheDir)
	assert.Equal(t, DefaultProject().APIService, p.APIService, "unset fields keep defaults")
}

func TestLoadProjectRejectsNegativeReplicas(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFile), []byte(`{"workerReplicas": -1}`), 0o644))

	_, err := LoadProject(dir)
	assert.Error(t, err)
}

func TestProjectComposeFiles(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		environ []string
		want    []string
	}{
		{name: "compose defaults", environ: []string{}, want: []string{"docker-compose.yml", "docker-compose.override.yml"}},
		{name: "COMPOSE_FILE", environ: []string{"COMPOSE_FILE=a.yml:b.yml"}, want: []string{"a.yml", "b.yml"}},
		{name: "custom separator", environ: []string{"COMPOSE_FILE=a.yml,,b.yml", "COMPOSE_PATH_SEPARATOR=,"}, want: []string{"a.yml", "b.yml"}},
		{name: "composeFile wins", file: "compose.yml", environ: []string{"COMPOSE_FILE=a.yml"}, want: []string{"compose.yml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultProject()
			p.ComposeFile = tt.file
			assert.Equal(t, tt.want, p.ComposeFiles(EnvFromEnviron(tt.environ)))
		})
	}
}
