package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOrchestrator struct {
	triggers atomic.Int32
}

func (s *stubOrchestrator) TriggerSync(context.Context)                  { s.triggers.Add(1) }
func (s *stubOrchestrator) TriggerSyncOne(context.Context, string) error { return nil }
func (s *stubOrchestrator) StartNetworkListener()                        {}
func (s *stubOrchestrator) StopNetworkListener()                         {}
func (s *stubOrchestrator) IsSyncing() bool                              { return false }
func (s *stubOrchestrator) LastSyncedAt() *time.Time                     { return nil }

type stubUploads struct {
	calls atomic.Int32
}

func (s *stubUploads) ProcessPending(context.Context) error {
	s.calls.Add(1)
	return nil
}

func TestClientSyncJob_RunsOnTicker(t *testing.T) {
	orchestrator := &stubOrchestrator{}
	uploads := &stubUploads{}
	job := NewClientSyncJob(orchestrator, uploads)
	defer job.Stop()

	job.Start(context.Background(), 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return orchestrator.triggers.Load() >= 2 && uploads.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestClientSyncJob_StopHaltsTicker(t *testing.T) {
	orchestrator := &stubOrchestrator{}
	job := NewClientSyncJob(orchestrator, &stubUploads{})

	job.Start(context.Background(), 10*time.Millisecond)
	require.Eventually(t, func() bool {
		return orchestrator.triggers.Load() >= 1
	}, time.Second, 5*time.Millisecond)

	job.Stop()
	after := orchestrator.triggers.Load()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, orchestrator.triggers.Load())
}

func TestClientSyncJob_StopWithoutStart(t *testing.T) {
	job := NewClientSyncJob(&stubOrchestrator{}, &stubUploads{})
	job.Stop()
}

func TestClientSyncJob_RestartReplacesPrevious(t *testing.T) {
	orchestrator := &stubOrchestrator{}
	job := NewClientSyncJob(orchestrator, &stubUploads{})
	defer job.Stop()

	job.Start(context.Background(), time.Hour)
	job.Start(context.Background(), 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return orchestrator.triggers.Load() >= 1
	}, time.Second, 5*time.Millisecond)
}
