package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJobsInOrder(t *testing.T) {
	processed := make(chan string, 2)
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		processed <- job.ID
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 4})

	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "first"}))
	require.NoError(t, q.Enqueue(Job{ID: "second"}))

	assert.Equal(t, "first", waitFor(t, processed))
	assert.Equal(t, "second", waitFor(t, processed))
}

func TestQueueDropsFailedJobs(t *testing.T) {
	var attempts int32
	done := make(chan struct{}, 2)
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		atomic.AddInt32(&attempts, 1)
		done <- struct{}{}
		if job.ID == "bad" {
			return errors.New("boom")
		}
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 4})

	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "bad"}))
	require.NoError(t, q.Enqueue(Job{ID: "good"}))

	<-done
	<-done
	// Give a would-be retry time to show up.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts), "a failed job is dropped, not retried")
}

func TestQueueEnqueueRequiresStart(t *testing.T) {
	q := NewQueue("test", func(ctx context.Context, job Job) error { return nil }, QueueConfig{})
	require.Error(t, q.Enqueue(Job{ID: "early"}))
}

func waitFor(t *testing.T, ch chan string) string {
	t.Helper()
	select {
	case id := <-ch:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("job was never processed")
		return ""
	}
}
