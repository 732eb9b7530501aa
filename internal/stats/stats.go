package stats

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/model-cloud/mcloud/internal/api"
	"github.com/model-cloud/mcloud/internal/session"
)

// Refresh fetches the dashboard statistics and writes the snapshot to
// durable storage so the home view can restore it when a later fetch
// fails. Fetch errors propagate; snapshot-write failures only log.
func Refresh(ctx context.Context, client *api.Client, storage session.Storage, log zerolog.Logger) (*api.Statistics, error) {
	snapshot, err := client.ModelStatistics(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		log.Warn().Err(err).Msg("failed to serialize statistics snapshot")
		return snapshot, nil
	}
	if err := storage.Set(session.KeyModelStats, string(data)); err != nil {
		log.Warn().Err(err).Msg("failed to persist statistics snapshot")
	}
	return snapshot, nil
}

// Cached returns the last persisted snapshot, if any. A snapshot that
// no longer parses is treated as absent.
func Cached(storage session.Storage, log zerolog.Logger) (*api.Statistics, bool) {
	raw, ok, err := storage.Get(session.KeyModelStats)
	if err != nil || !ok {
		return nil, false
	}
	var snapshot api.Statistics
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		log.Warn().Err(err).Msg("discarding corrupt statistics snapshot")
		return nil, false
	}
	return &snapshot, true
}
