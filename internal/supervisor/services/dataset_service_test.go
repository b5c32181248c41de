// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

var _ suture.Service = (*DatasetLoaderService)(nil)

// fakeLoader fails the first failUntil calls, then succeeds.
type fakeLoader struct {
	calls     atomic.Int32
	failUntil int32
	loaded    atomic.Bool
}

func (f *fakeLoader) Load(ctx context.Context) error {
	n := f.calls.Add(1)
	if n <= f.failUntil {
		return errors.New("source unavailable")
	}
	f.loaded.Store(true)
	return nil
}

func (f *fakeLoader) Loaded() bool { return f.loaded.Load() }

// runFor serves svc for d and returns Serve's result.
func runFor(t *testing.T, svc *DatasetLoaderService, d time.Duration) error {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	select {
	case err := <-errCh:
		return err
	case <-time.After(d + 2*time.Second):
		t.Fatal("Serve did not return after the context expired")
		return nil
	}
}

func TestDatasetLoaderService(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		failUntil int32
		cfg       DatasetLoaderConfig
		minCalls  int32
		maxCalls  int32
		loaded    bool
	}{
		{
			name:     "loads once without reload interval",
			cfg:      DatasetLoaderConfig{RetryInterval: 10 * time.Millisecond},
			minCalls: 1,
			maxCalls: 1,
			loaded:   true,
		},
		{
			name:      "retries until first success then stops",
			failUntil: 2,
			cfg:       DatasetLoaderConfig{RetryInterval: 10 * time.Millisecond},
			minCalls:  3,
			maxCalls:  3,
			loaded:    true,
		},
		{
			name:     "reloads on interval",
			cfg:      DatasetLoaderConfig{ReloadInterval: 20 * time.Millisecond},
			minCalls: 3,
			maxCalls: 100,
			loaded:   true,
		},
		{
			name:      "keeps retrying while the source fails",
			failUntil: 1 << 30,
			cfg:       DatasetLoaderConfig{RetryInterval: 20 * time.Millisecond, ReloadInterval: time.Hour},
			minCalls:  3,
			maxCalls:  100,
			loaded:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			loader := &fakeLoader{failUntil: tt.failUntil}
			err := runFor(t, NewDatasetLoaderService(loader, tt.cfg), 200*time.Millisecond)

			if !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("Serve() error = %v, want context.DeadlineExceeded", err)
			}
			calls := loader.calls.Load()
			if calls < tt.minCalls || calls > tt.maxCalls {
				t.Errorf("Load calls = %d, want [%d, %d]", calls, tt.minCalls, tt.maxCalls)
			}
			if loader.Loaded() != tt.loaded {
				t.Errorf("Loaded() = %v, want %v", loader.Loaded(), tt.loaded)
			}
		})
	}
}

func TestNewDatasetLoaderService_Defaults(t *testing.T) {
	t.Parallel()

	svc := NewDatasetLoaderService(&fakeLoader{}, DatasetLoaderConfig{})
	if svc.config.RetryInterval != 30*time.Second {
		t.Errorf("RetryInterval = %v, want 30s", svc.config.RetryInterval)
	}
	if svc.String() != "dataset-loader" {
		t.Errorf("String() = %q, want dataset-loader", svc.String())
	}
}
