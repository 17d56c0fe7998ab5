package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akolanti/DocQueryAPI/internal/domain/jobModel"
	"github.com/akolanti/DocQueryAPI/internal/job"
	"github.com/akolanti/DocQueryAPI/pkg/logger_i"
)

// MockRagService to track if jobs are executed
type MockRagService struct {
	ProcessedCount int32
}

func (m *MockRagService) ProcessRequest(ctx context.Context, j jobModel.Job, hist []string) jobModel.Job {
	atomic.AddInt32(&m.ProcessedCount, 1)
	return j
}

func (m *MockRagService) IngestDocument(ctx context.Context, j jobModel.Job) jobModel.Job {
	atomic.AddInt32(&m.ProcessedCount, 1)
	return j
}

type MockJobStore struct {
	OnSaveJob func(ctx context.Context, job jobModel.Job) error
}

func (m *MockJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	//TODO implement me
	panic("implement me")
}

func (m *MockJobStore) DeleteJob(ctx context.Context, jobID string) {
	//TODO implement me
	panic("implement me")
}

func (m *MockJobStore) SaveJob(ctx context.Context, j jobModel.Job) error {
	if m.OnSaveJob != nil {
		return m.OnSaveJob(ctx, j)
	}
	return nil
}

// MockMessageStore handles chat history
type MockMessageStore struct {
	OnGetHistory func(ctx context.Context, chatId string) (error, []string)
	OnSaveChat   func(ctx context.Context, chatId string, payload jobModel.JobPayload) error
}

func (m *MockMessageStore) ValidateChatId(ctx context.Context, id string) bool {
	return true
}

func (m *MockMessageStore) InitNewChat(ctx context.Context, id string) error {
	return nil
}

func (m *MockMessageStore) GetMessageHistory(ctx context.Context, id string) (error, []string) {
	if m.OnGetHistory != nil {
		return m.OnGetHistory(ctx, id)
	}
	return nil, []string{}
}
func (m *MockMessageStore) TrySaveChat(ctx context.Context, id string, p jobModel.JobPayload) error {
	if m.OnSaveChat != nil {
		return m.OnSaveChat(ctx, id, p)
	}
	return nil
}

func TestWorkerPool_Flow(t *testing.T) {
	// 1. Setup
	jobSvc := &job.Service{
		JobChannel:        make(chan jobModel.Job, 10),
		DispatcherChannel: make(chan bool, 10),
		JobStore:          &MockJobStore{},
		MessageStore:      &MockMessageStore{},
	}
	mockRag := &MockRagService{}
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}

	InitServices(jobSvc, mockRag)
	InitWorkerPool(stopChan, wg)

	// Reset global state for test
	atomic.StoreInt64(&currentWorkerCount, 0)

	t.Run("Dispatcher creates worker on signal", func(t *testing.T) {
		// Signal dispatcher to create a worker
		jobSvc.DispatcherChannel <- true

		// Give it a millisecond to spawn
		time.Sleep(50 * time.Millisecond)

		count := atomic.LoadInt64(&currentWorkerCount)
		if count < 1 {
			t.Errorf("Expected at least 1 worker, got %d", count)
		}
	})

	t.Run("Worker processes a job", func(t *testing.T) {
		testJob := jobModel.Job{Id: "test-1"}
		jobSvc.JobChannel <- testJob

		// Wait for worker to pick up and process
		time.Sleep(50 * time.Millisecond)

		processed := atomic.LoadInt32(&mockRag.ProcessedCount)
		if processed != 1 {
			t.Errorf("Expected 1 job processed, got %d", processed)
		}
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		// Send stop signal
		close(stopChan)

		// Wait for workers to exit
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			// Success
		case <-time.After(2 * time.Second):
			t.Error("Workers did not stop within timeout")
		}
	})
}

func TestExecuteJob_PreservesErrorStatus(t *testing.T) {
	var savedStatuses []jobModel.JobStatus
	jobSvc := &job.Service{
		JobChannel:        make(chan jobModel.Job, 1),
		DispatcherChannel: make(chan bool, 1),
		JobStore: &MockJobStore{
			OnSaveJob: func(ctx context.Context, j jobModel.Job) error {
				savedStatuses = append(savedStatuses, j.Status)
				return nil
			},
		},
		MessageStore: &MockMessageStore{},
	}

	logger = logger_i.NewLogger("worker-test")
	failingRag := &failingRagService{}
	InitServices(jobSvc, failingRag)

	executeJob(jobModel.Job{Id: "fail-1", JobType: jobModel.JobTypeQuery})

	if len(savedStatuses) != 2 {
		t.Fatalf("Expected 2 saves (running + final), got %d", len(savedStatuses))
	}
	if savedStatuses[1] != jobModel.JobStatusError {
		t.Errorf("Final saved status got %v, want %v", savedStatuses[1], jobModel.JobStatusError)
	}
}

type failingRagService struct{}

func (f *failingRagService) ProcessRequest(ctx context.Context, j jobModel.Job, hist []string) jobModel.Job {
	j.Status = jobModel.JobStatusError
	return j
}

func (f *failingRagService) IngestDocument(ctx context.Context, j jobModel.Job) jobModel.Job {
	j.Status = jobModel.JobStatusError
	return j
}
