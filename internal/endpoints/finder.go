package endpoints

import (
	"context"

	"provenance-api/internal/models"

	"go.uber.org/zap"
)

// Task is one fetch of one feed endpoint.
type Task struct {
	Endpoint string
	Accept   string
}

// EndpointLister is the read side of the endpoint store.
type EndpointLister interface {
	FindAll(ctx context.Context) ([]models.Endpoint, error)
}

// WorkFinder turns registered endpoints into tasks for the scheduler.
type WorkFinder struct {
	endpoints EndpointLister
	logger    *zap.Logger
}

// NewWorkFinder returns a WorkFinder reading from endpoints.
func NewWorkFinder(endpoints EndpointLister, logger *zap.Logger) *WorkFinder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkFinder{endpoints: endpoints, logger: logger}
}

// FindRequested returns one task per registered endpoint. Every endpoint is
// due on every tick, so the worker name is only used for logging.
func (f *WorkFinder) FindRequested(ctx context.Context, name string) ([]Task, error) {
	eps, err := f.endpoints.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	tasks := make([]Task, 0, len(eps))
	for _, ep := range eps {
		tasks = append(tasks, Task{Endpoint: ep.URL, Accept: ep.Accept})
	}
	f.logger.Debug("found endpoint tasks", zap.String("worker", name), zap.Int("count", len(tasks)))
	return tasks, nil
}

// MarkCompleted records that a task finished successfully.
func (f *WorkFinder) MarkCompleted(task Task) {
	f.logger.Debug("completed endpoint task", zap.String("endpoint", task.Endpoint))
}
