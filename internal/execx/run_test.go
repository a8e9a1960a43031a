package execx

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/vcr-manage/internal/model"
)

func TestCommand_String(t *testing.T) {
	cmd := Command{Name: "docker-compose", Args: []string{"run", "--rm", "vcr-api", "bash", "-c", "coverage run manage.py test"}}
	assert.Equal(t, "docker-compose run --rm vcr-api bash -c 'coverage run manage.py test'", cmd.String())
}

func TestHostRunner_DryRun(t *testing.T) {
	var stderr bytes.Buffer
	r := &HostRunner{Stderr: &stderr, DryRun: true}

	res := r.Run(context.Background(), Command{Name: "definitely-not-a-binary", Args: []string{"up", "-d"}})

	assert.True(t, res.OK())
	assert.Equal(t, "+ definitely-not-a-binary up -d\n", stderr.String())
}

func TestHostRunner_ExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	var stdout, stderr bytes.Buffer
	r := NewHostRunner(false, nil)
	r.Stdout = &stdout
	r.Stderr = &stderr
	r.Stdin = nil

	res := r.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo hello; exit 3"},
	})

	assert.Equal(t, 3, res.Code)
	assert.Error(t, res.Err)
	assert.False(t, res.OK())
	assert.Equal(t, "hello\n", stdout.String())
}

func TestHostRunner_MissingBinary(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := NewHostRunner(false, nil)
	r.Stdout = &stdout
	r.Stderr = &stderr
	r.Stdin = nil

	res := r.Run(context.Background(), Command{Name: "vcr-manage-missing-binary"})
	require.Error(t, res.Err)
	assert.Equal(t, 1, res.Code)
	assert.True(t, errors.Is(res.Err, exec.ErrNotFound))
}

func TestResult_Check(t *testing.T) {
	assert.NoError(t, Result{}.Check("building api image"))

	err := Result{Code: 2, Err: errors.New("exit status 2")}.Check("building api image")
	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitCode(2), cliErr.Code)
	assert.Equal(t, "building api image", cliErr.Message)

	err = Result{Err: errors.New("cannot start")}.Check("x")
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitGeneralError, cliErr.Code)
}
