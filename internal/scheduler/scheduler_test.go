package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScheduler() *Scheduler {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAddJob_InvalidSpec(t *testing.T) {
	s := testScheduler()
	err := s.AddJob("not a cron spec", "digest", func(context.Context) {})
	assert.Error(t, err)
}

func TestAddJob_AcceptsDailySpec(t *testing.T) {
	s := testScheduler()
	// The production default: daily at 20:01.
	err := s.AddJob("1 20 * * *", "digest", func(context.Context) {})
	assert.NoError(t, err)
}

func TestScheduler_RunsJob(t *testing.T) {
	s := testScheduler()

	var runs atomic.Int32
	require.NoError(t, s.AddJob("@every 50ms", "tick", func(context.Context) {
		runs.Add(1)
	}))

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return runs.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_RecoversFromPanic(t *testing.T) {
	s := testScheduler()

	var after atomic.Bool
	require.NoError(t, s.AddJob("@every 50ms", "panicky", func(context.Context) {
		if !after.Swap(true) {
			panic("boom")
		}
	}))

	s.Start()
	defer s.Stop()

	// The second invocation proves the panic did not kill the runner.
	var second atomic.Bool
	require.NoError(t, s.AddJob("@every 50ms", "witness", func(context.Context) {
		second.Store(true)
	}))

	assert.Eventually(t, func() bool {
		return after.Load() && second.Load()
	}, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_StopWaitsForJobs(t *testing.T) {
	s := testScheduler()

	var started, done atomic.Bool
	require.NoError(t, s.AddJob("@every 1s", "slow", func(context.Context) {
		started.Store(true)
		time.Sleep(100 * time.Millisecond)
		done.Store(true)
	}))

	s.Start()
	// cron rounds sub-second intervals up to 1s, so wait for the job to
	// actually begin before stopping.
	require.Eventually(t, func() bool { return started.Load() }, 3*time.Second, 5*time.Millisecond)
	s.Stop()

	assert.True(t, done.Load())
}
