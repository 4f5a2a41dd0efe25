package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edubridge/edubridge-api/internal/models"
	"github.com/edubridge/edubridge-api/pkg/config"
)

type fakeCache struct {
	mu      sync.Mutex
	payload []byte
	sets    int
}

func (f *fakeCache) Get(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.payload == nil {
		return nil, fmt.Errorf("cache miss")
	}
	return f.payload, nil
}

func (f *fakeCache) Set(ctx context.Context, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payload = payload
	f.sets++
	return nil
}

func remoteDocument() []byte {
	doc := models.SchoolData{
		"6th": {Students: []models.Student{{ID: "stu-1", Name: "Aarav", Class: "6th", RollNumber: 601}}},
	}
	raw, _ := json.Marshal(doc)
	return raw
}

func newGateway(url string, cache snapshotCache) *Gateway {
	return New(config.BlobConfig{URL: url, Timeout: time.Second}, cache, nil)
}

func TestLoadFromRemoteRefreshesCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		w.Write(remoteDocument()) //nolint:errcheck
	}))
	defer srv.Close()

	cache := &fakeCache{}
	g := newGateway(srv.URL, cache)

	data := g.Load(context.Background())
	require.Contains(t, data, "6th")
	assert.Equal(t, "stu-1", data["6th"].Students[0].ID)
	assert.Equal(t, 1, cache.sets, "remote read refreshes the cache")
}

func TestLoadFallsBackToCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cache := &fakeCache{payload: remoteDocument()}
	g := newGateway(srv.URL, cache)

	data := g.Load(context.Background())
	require.Contains(t, data, "6th")
	assert.Equal(t, "stu-1", data["6th"].Students[0].ID)
}

func TestLoadSeedsWhenEverythingFails(t *testing.T) {
	g := newGateway("http://127.0.0.1:1/api/school-data", &fakeCache{})

	data := g.Load(context.Background())
	require.NotEmpty(t, data, "seed dataset is the last resort")
	assert.Contains(t, data, "6th")
}

func TestLoadTreatsNullAsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("null")) //nolint:errcheck
	}))
	defer srv.Close()

	g := newGateway(srv.URL, &fakeCache{})
	data := g.Load(context.Background())
	assert.NotEmpty(t, data, "an empty store seeds the defaults")
}

func TestSaveCachesAndPushesRemote(t *testing.T) {
	var mu sync.Mutex
	var received []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		mu.Lock()
		received = body
		mu.Unlock()
	}))
	defer srv.Close()

	cache := &fakeCache{}
	g := newGateway(srv.URL, cache)

	data := models.SchoolData{"6th": {}}
	g.Save(context.Background(), data)
	g.Wait()

	assert.Equal(t, 1, cache.sets, "cache write is synchronous")
	mu.Lock()
	defer mu.Unlock()
	var pushed models.SchoolData
	require.NoError(t, json.Unmarshal(received, &pushed))
	assert.Contains(t, pushed, "6th")
}

func TestSaveSurvivesRemoteFailure(t *testing.T) {
	cache := &fakeCache{}
	g := newGateway("http://127.0.0.1:1/api/school-data", cache)

	var failures int32
	g.OnPushFailure(func() { atomic.AddInt32(&failures, 1) })

	g.Save(context.Background(), models.SchoolData{"6th": {}})
	g.Wait()

	assert.Equal(t, 1, cache.sets, "the local cache still holds the snapshot")
	assert.Equal(t, int32(1), atomic.LoadInt32(&failures))
}
