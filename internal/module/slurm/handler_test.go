package slurm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FredHutch/slurm-node-dashboard/internal/pkg/cache"
	"github.com/FredHutch/slurm-node-dashboard/internal/pkg/client/slurmrest/model"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

type stubNodeSource struct {
	snap        cache.Snapshot
	invalidated int
}

func (s *stubNodeSource) GetOrRefresh(ctx context.Context) cache.Snapshot { return s.snap }
func (s *stubNodeSource) Invalidate() { s.invalidated++ }

type stubRawSource struct {
	calls                atomic.Int32
	GetReservationsFn    func(ctx context.Context) ([]byte, error)
	GetUserRunningJobsFn func(ctx context.Context, user string) ([]byte, error)
}

func (s *stubRawSource) GetReservations(ctx context.Context) ([]byte, error) {
	s.calls.Add(1)
	return s.GetReservationsFn(ctx)
}

func (s *stubRawSource) GetUserRunningJobs(ctx context.Context, user string) ([]byte, error) {
	s.calls.Add(1)
	return s.GetUserRunningJobsFn(ctx, user)
}

type fixture struct {
	engine *gin.Engine
	nodes  *stubNodeSource
	raw    *stubRawSource
}

func newFixture(t *testing.T, cluster ClusterSource) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := &fixture{
		nodes: &stubNodeSource{snap: cache.Snapshot{
			Nodes: model.Nodes{
				{Name: "n1", State: model.StringList{"IDLE"}, CPUs: 4},
				{Name: "n2", State: model.StringList{"ALLOCATED", "DRAIN"}, CPUs: 4, AllocCPUs: 4},
			},
			Names:     []string{"n1", "n2"},
			Timestamp: time.UnixMilli(1700000000123),
		}},
		raw: &stubRawSource{
			GetReservationsFn: func(ctx context.Context) ([]byte, error) {
				return []byte(`{"reservations":[{"name":"maint"}]}`), nil
			},
			GetUserRunningJobsFn: func(ctx context.Context, user string) ([]byte, error) {
				if user == "bob" {
					return nil, errors.New("slurmdbd unavailable")
				}
				return []byte(`{"jobs":[]}`), nil
			},
		},
	}
	f.engine = gin.New()
	NewRouter(
		NewNodeAggregator(f.nodes),
		NewClusterAggregator(cluster, nil, discard()),
		NewPassthrough(f.raw, time.Minute),
		discard(),
	).Register(f.engine)
	return f
}

func (f *fixture) do(method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func okCluster() ClusterSource {
	return stubClusterSource{
		GetNodesFn: func(ctx context.Context) (model.Nodes, error) {
			return model.Nodes{{Name: "n1", Hostname: "sol-gpu-01", CPUs: 4, AllocCPUs: 2}}, nil
		},
		GetJobsFn: func(ctx context.Context) (model.Jobs, error) { return model.Jobs{}, nil },
	}
}

func TestHandlerListNodes(t *testing.T) {
	f := newFixture(t, okCluster())

	rec := f.do(http.MethodGet, "/api/slurm/nodes")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Nodes      []map[string]any `json:"nodes"`
		LastUpdate struct {
			Number int64 `json:"number"`
		} `json:"last_update"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Nodes, 2)
	assert.Equal(t, "n1", body.Nodes[0]["name"])
	assert.Equal(t, int64(1700000000123), body.LastUpdate.Number)
}

func TestListNodesReturnsCopy(t *testing.T) {
	src := &stubNodeSource{snap: cache.Snapshot{Nodes: model.Nodes{{Name: "n1", State: model.StringList{"IDLE"}}}}}
	agg := NewNodeAggregator(src)

	listing := agg.ListNodes(context.Background())
	listing.Nodes[0].Name = "changed"
	listing.Nodes[0].State[0] = "DOWN"

	assert.Equal(t, "n1", src.snap.Nodes[0].Name)
	assert.Equal(t, "IDLE", src.snap.Nodes[0].State[0])
}

func TestHandlerGetNode(t *testing.T) {
	f := newFixture(t, okCluster())

	rec := f.do(http.MethodGet, "/api/slurm/nodes/n2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"n2"`)

	rec = f.do(http.MethodGet, "/api/slurm/nodes/n9")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "node n9 not found", body["error"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestHandlerRefreshNodes(t *testing.T) {
	f := newFixture(t, okCluster())

	rec := f.do(http.MethodPost, "/api/slurm/nodes/refresh")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, f.nodes.invalidated)
}

func TestHandlerClusterStatus(t *testing.T) {
	f := newFixture(t, okCluster())

	rec := f.do(http.MethodGet, "/api/cluster-status")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=30, s-maxage=30", rec.Header().Get("Cache-Control"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	clusters := body["clusters"].([]any)
	require.Len(t, clusters, 1)
	sol := clusters[0].(map[string]any)
	assert.Equal(t, "Sol", sol["name"])
	assert.EqualValues(t, 50, sol["utilization"])
	assert.EqualValues(t, 4, sol["resources"].(map[string]any)["totalCpus"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestHandlerClusterStatusFailure(t *testing.T) {
	f := newFixture(t, stubClusterSource{
		GetNodesFn: func(ctx context.Context) (model.Nodes, error) {
			return nil, errors.New("connection refused")
		},
		GetJobsFn: func(ctx context.Context) (model.Jobs, error) { return model.Jobs{}, nil },
	})

	rec := f.do(http.MethodGet, "/api/cluster-status")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get("Cache-Control"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Failed to fetch cluster status", body["error"])
	ts, err := time.Parse(time.RFC3339Nano, body["timestamp"].(string))
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), ts, time.Minute)
	assert.NotContains(t, body, "clusters")
}

func TestHandlerPassthroughIsCached(t *testing.T) {
	f := newFixture(t, okCluster())

	for i := 0; i < 3; i++ {
		rec := f.do(http.MethodGet, "/api/slurm/reservations")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"reservations":[{"name":"maint"}]}`, rec.Body.String())
	}
	assert.EqualValues(t, 1, f.raw.calls.Load())

	rec := f.do(http.MethodGet, "/api/slurm/jobs/user/alice")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, f.raw.calls.Load())
}

func TestHandlerPassthroughFailureNotCached(t *testing.T) {
	f := newFixture(t, okCluster())

	for i := 0; i < 2; i++ {
		rec := f.do(http.MethodGet, "/api/slurm/jobs/user/bob")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "Failed to fetch jobs for user bob")
	}
	assert.EqualValues(t, 2, f.raw.calls.Load())
}
