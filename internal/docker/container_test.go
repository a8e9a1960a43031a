package docker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/volume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/vcr-manage/internal/model"
)

// fakeAPI is an in-memory API. Each ContainerList call pops the next
// entry of containerLists; the last entry is repeated.
type fakeAPI struct {
	pingErr error

	bridge     network.Inspect
	networkErr error

	volumes       []*volume.Volume
	volumeFilters []string
	removed       []string
	removeErr     map[string]error

	containerLists [][]container.Summary
	listCalls      int
	listFilters    []string
}

func (f *fakeAPI) Ping(context.Context) (types.Ping, error) {
	return types.Ping{}, f.pingErr
}

func (f *fakeAPI) NetworkInspect(_ context.Context, id string, _ network.InspectOptions) (network.Inspect, error) {
	if f.networkErr != nil {
		return network.Inspect{}, f.networkErr
	}
	if id != BridgeNetwork {
		return network.Inspect{}, errors.New("no such network")
	}
	return f.bridge, nil
}

func (f *fakeAPI) VolumeList(_ context.Context, opts volume.ListOptions) (volume.ListResponse, error) {
	f.volumeFilters = opts.Filters.Get("name")
	return volume.ListResponse{Volumes: f.volumes}, nil
}

func (f *fakeAPI) VolumeRemove(_ context.Context, id string, _ bool) error {
	if err := f.removeErr[id]; err != nil {
		return err
	}
	f.removed = append(f.removed, id)
	return nil
}

func (f *fakeAPI) ContainerList(_ context.Context, opts container.ListOptions) ([]container.Summary, error) {
	f.listFilters = opts.Filters.Get("label")
	if len(f.containerLists) == 0 {
		return nil, nil
	}
	i := f.listCalls
	if i >= len(f.containerLists) {
		i = len(f.containerLists) - 1
	}
	f.listCalls++
	return f.containerLists[i], nil
}

func (f *fakeAPI) Close() error { return nil }

// summary decodes a container.Summary from the Engine API's JSON shape.
func summary(id, service, state string) container.Summary {
	raw := fmt.Sprintf(`{
		"Id": %q,
		"Names": ["/vcr-%s-1"],
		"Image": %q,
		"State": %q,
		"Status": "Up 2 minutes",
		"Labels": {%q: "vcr", %q: %q}
	}`, id, service, service, state, LabelComposeProject, LabelComposeService, service)

	var s container.Summary
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		panic(err)
	}
	return s
}

func TestPing(t *testing.T) {
	assert.NoError(t, New(&fakeAPI{}).Ping(context.Background()))

	err := New(&fakeAPI{pingErr: errors.New("connection refused")}).Ping(context.Background())
	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitDockerNotRunning, cliErr.Code)
}

func TestBridgeGateway(t *testing.T) {
	api := &fakeAPI{bridge: network.Inspect{
		IPAM: network.IPAM{Config: []network.IPAMConfig{
			{Subnet: "fd00::/64"},
			{Subnet: "172.17.0.0/16", Gateway: "172.17.0.1"},
		}},
	}}
	gw, err := New(api).BridgeGateway(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "172.17.0.1", gw)

	_, err = New(&fakeAPI{}).BridgeGateway(context.Background())
	assert.Error(t, err, "no gateway configured")

	_, err = New(&fakeAPI{networkErr: errors.New("boom")}).BridgeGateway(context.Background())
	assert.Error(t, err)
}

// TestProjectVolumes checks that only names starting with the prefix are
// returned, since the daemon's name filter also matches substrings.
func TestProjectVolumes(t *testing.T) {
	api := &fakeAPI{volumes: []*volume.Volume{
		{Name: "vcr_wallet-data"},
		{Name: "othervcr_data"},
		{Name: "vcr_db-data"},
		nil,
		{Name: "vcr-data"},
	}}

	names, err := New(api).ProjectVolumes(context.Background(), "vcr_")
	require.NoError(t, err)
	assert.Equal(t, []string{"vcr_db-data", "vcr_wallet-data"}, names)
	assert.Equal(t, []string{"vcr_"}, api.volumeFilters)

	_, err = New(api).ProjectVolumes(context.Background(), "")
	assert.Error(t, err)
}

func TestRemoveVolumesAttemptsEvery(t *testing.T) {
	api := &fakeAPI{removeErr: map[string]error{"vcr_a": errors.New("in use")}}

	err := New(api).RemoveVolumes(context.Background(), []string{"vcr_a", "vcr_b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vcr_a")
	assert.Equal(t, []string{"vcr_b"}, api.removed)
}

func TestListProjectContainers(t *testing.T) {
	api := &fakeAPI{containerLists: [][]container.Summary{{
		summary("2", "vcr-db", "running"),
		summary("1", "vcr-api", "exited"),
	}}}

	got, err := New(api).ListProjectContainers(context.Background(), "vcr")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "vcr-api", got[0].ServiceName)
	assert.Equal(t, "vcr-vcr-api-1", got[0].ContainerName)
	assert.Equal(t, "exited", got[0].State)
	assert.Equal(t, []string{LabelComposeProject + "=vcr"}, api.listFilters)
}

func TestWaitRunning(t *testing.T) {
	api := &fakeAPI{containerLists: [][]container.Summary{
		{summary("1", "wallet-db", "created")},
		{summary("1", "wallet-db", "running"), summary("2", "vcr-db", "restarting")},
		{summary("1", "wallet-db", "running"), summary("2", "vcr-db", "running")},
	}}

	err := New(api).WaitRunning(context.Background(), "vcr", []string{"wallet-db", "vcr-db"}, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 3, api.listCalls)
}

func TestWaitRunningCancelled(t *testing.T) {
	api := &fakeAPI{containerLists: [][]container.Summary{{summary("1", "wallet-db", "exited")}}}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := New(api).WaitRunning(ctx, "vcr", []string{"wallet-db"}, time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "wallet-db")
}
