// Package gateway is the persistence boundary: a get/put blob client over the
// remote document store with a local cache fallback. Remote failures are
// logged and never surfaced; the local cache is the source of truth for the
// running application.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/edubridge/edubridge-api/internal/models"
	"github.com/edubridge/edubridge-api/internal/store"
	"github.com/edubridge/edubridge-api/pkg/config"
)

type snapshotCache interface {
	Get(ctx context.Context) ([]byte, error)
	Set(ctx context.Context, payload []byte) error
}

// Gateway loads and saves the full SchoolData document.
type Gateway struct {
	url           string
	client        *http.Client
	cache         snapshotCache
	logger        *zap.Logger
	wg            sync.WaitGroup
	onPushFailure func()
}

// OnPushFailure registers a callback invoked whenever a background remote
// push fails. Must be set before the first Save.
func (g *Gateway) OnPushFailure(fn func()) {
	g.onPushFailure = fn
}

// New constructs a Gateway for the configured remote blob store.
func New(cfg config.BlobConfig, cache snapshotCache, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if cache == nil {
		cache = nopCache{}
	}
	return &Gateway{
		url:    cfg.URL,
		client: &http.Client{Timeout: timeout},
		cache:  cache,
		logger: logger,
	}
}

// nopCache stands in when no cache is configured; every read misses.
type nopCache struct{}

func (nopCache) Get(context.Context) ([]byte, error) { return nil, fmt.Errorf("no cache configured") }
func (nopCache) Set(context.Context, []byte) error   { return nil }

// Load fetches the document: remote store first, then the local cache, then
// the seeded default dataset as a last resort. A successful remote read
// refreshes the cache.
func (g *Gateway) Load(ctx context.Context) models.SchoolData {
	if raw, err := g.fetchRemote(ctx); err != nil {
		g.logger.Warn("remote store unavailable, falling back to cache", zap.Error(err))
	} else if raw != nil {
		var data models.SchoolData
		if err := json.Unmarshal(raw, &data); err != nil {
			g.logger.Warn("remote document malformed, falling back to cache", zap.Error(err))
		} else {
			if err := g.cache.Set(ctx, raw); err != nil {
				g.logger.Warn("failed to refresh local cache", zap.Error(err))
			}
			g.logger.Info("loaded school data from remote store")
			return data
		}
	}

	if raw, err := g.cache.Get(ctx); err == nil {
		var data models.SchoolData
		if err := json.Unmarshal(raw, &data); err == nil {
			g.logger.Info("loaded school data from local cache")
			return data
		}
		g.logger.Warn("cached document malformed, seeding defaults", zap.Error(err))
	}

	g.logger.Info("seeding default school data")
	return store.Seed()
}

// Save persists a snapshot: the local cache is written synchronously, the
// remote write happens in the background and is never retried or rolled
// back. Errors are logged only.
func (g *Gateway) Save(ctx context.Context, data models.SchoolData) {
	payload, err := json.Marshal(data)
	if err != nil {
		g.logger.Error("failed to marshal school data", zap.Error(err))
		return
	}

	if err := g.cache.Set(ctx, payload); err != nil {
		g.logger.Warn("failed to write local cache", zap.Error(err))
	}

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		if err := g.pushRemote(context.Background(), payload); err != nil {
			g.logger.Warn("failed to sync school data to remote store", zap.Error(err))
			if g.onPushFailure != nil {
				g.onPushFailure()
			}
			return
		}
		g.logger.Debug("school data synced to remote store")
	}()
}

// Wait blocks until in-flight background saves finish. Used on shutdown and
// in tests.
func (g *Gateway) Wait() {
	g.wg.Wait()
}

// fetchRemote returns the raw document, nil when the store holds none yet.
func (g *Gateway) fetchRemote(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote store returned %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	return raw, nil
}

func (g *Gateway) pushRemote(ctx context.Context, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, g.client.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("remote store returned %d", resp.StatusCode)
	}
	return nil
}
