package ledger

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterURL(t *testing.T) {
	tests := []struct {
		name       string
		ledgerURL  string
		dockerHost string
		want       string
	}{
		{
			name:       "default ledger on docker host",
			ledgerURL:  "http://172.17.0.1:9000",
			dockerHost: "172.17.0.1",
			want:       "http://localhost:9000/register",
		},
		{
			name:       "remote ledger",
			ledgerURL:  "http://test.bcovrin.vonx.io",
			dockerHost: "172.17.0.1",
			want:       "http://test.bcovrin.vonx.io/register",
		},
		{
			name:       "trailing slash",
			ledgerURL:  "http://ledger:9000/",
			dockerHost: "172.17.0.1",
			want:       "http://ledger:9000/register",
		},
		{
			name:       "docker host on another port",
			ledgerURL:  "http://172.17.0.1:9001",
			dockerHost: "172.17.0.1",
			want:       "http://172.17.0.1:9001/register",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RegisterURL(tt.ledgerURL, tt.dockerHost))
		})
	}
}

func TestBody(t *testing.T) {
	assert.Equal(t, `{"seed": "my_seed_000000000000000000000000"}`, string(Body("my_seed_000000000000000000000000")))
	assert.Equal(t, `{"seed": "a\"b"}`, string(Body(`a"b`)))
}

type request struct {
	contentType string
	body        string
}

// ledgerServer records every request and fails seeds named "bad".
func ledgerServer(t *testing.T) (*httptest.Server, *[]request) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []request
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, request{contentType: r.Header.Get("Content-Type"), body: string(body)})
		mu.Unlock()

		if r.Method != http.MethodPost || r.URL.Path != "/register" {
			http.NotFound(w, r)
			return
		}
		if string(body) == `{"seed": "bad"}` {
			http.Error(w, "invalid seed", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"did": "did-for-seed", "verkey": "vk"}`)
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs
}

// TestRegisterOnePostPerSeed checks that every seed gets its own request
// and a failure does not stop later seeds.
func TestRegisterOnePostPerSeed(t *testing.T) {
	srv, reqs := ledgerServer(t)

	regs := NewClient(srv.URL+"/register").Register(context.Background(), []string{"abc", "bad", "def"})

	require.Len(t, *reqs, 3)
	assert.Equal(t, `{"seed": "abc"}`, (*reqs)[0].body)
	assert.Equal(t, `{"seed": "bad"}`, (*reqs)[1].body)
	assert.Equal(t, `{"seed": "def"}`, (*reqs)[2].body)
	for _, r := range *reqs {
		assert.Equal(t, "application/json", r.contentType)
	}

	require.Len(t, regs, 3)
	assert.True(t, regs[0].OK())
	assert.Equal(t, "did-for-seed", regs[0].DID)
	assert.Equal(t, http.StatusOK, regs[0].StatusCode)

	assert.False(t, regs[1].OK())
	assert.Equal(t, http.StatusBadRequest, regs[1].StatusCode)
	assert.Contains(t, regs[1].Err.Error(), "invalid seed")

	failed := Failed(regs)
	require.Len(t, failed, 1)
	assert.Equal(t, "bad", failed[0].Seed)
}

func TestRegisterPlainTextResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}))
	defer srv.Close()

	regs := NewClient(srv.URL).Register(context.Background(), []string{"abc"})
	require.Len(t, regs, 1)
	assert.True(t, regs[0].OK())
	assert.Empty(t, regs[0].DID)
}

func TestRegisterConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	regs := NewClient(url).Register(context.Background(), []string{"abc"})
	require.Len(t, regs, 1)
	assert.Error(t, regs[0].Err)
	assert.Zero(t, regs[0].StatusCode)
}
