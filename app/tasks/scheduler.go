package tasks

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"log/slog"

	"github.com/teerapat-l/presswire/app/cfg"
	"github.com/teerapat-l/presswire/app/database"
	"github.com/teerapat-l/presswire/app/ingest"
	"github.com/teerapat-l/presswire/app/news"
	"github.com/teerapat-l/presswire/app/storage"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	sourceCache   *news.SourceCache
	postRepo      database.PostRepository
	hybrid        *storage.Hybrid
	tagger        ingest.Tagger
	pageExtractor ingest.FullTextExtractor
	httpClient    *http.Client
	userAgent     string
	maxTags       int
	interval      time.Duration
	workerCount   int
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	taskQueue     chan TaskInterface

	// Sources live in YAML only, so refresh due times are tracked here
	// rather than in the document store.
	mu          sync.Mutex
	nextFetchAt map[string]time.Time
}

func NewScheduler(sourceCache *news.SourceCache, postRepo database.PostRepository,
	hybrid *storage.Hybrid, tagger ingest.Tagger, pageExtractor ingest.FullTextExtractor,
	httpClient *http.Client) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		sourceCache:   sourceCache,
		postRepo:      postRepo,
		hybrid:        hybrid,
		tagger:        tagger,
		pageExtractor: pageExtractor,
		httpClient:    httpClient,
		userAgent:     cfg.UserAgent,
		maxTags:       cfg.MaxTags,
		interval:      time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount:   cfg.WorkerCount,
		ctx:           ctx,
		cancel:        cancel,
		taskQueue:     make(chan TaskInterface, 300),
		nextFetchAt:   make(map[string]time.Time),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()

}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueTasks() {
	sources := s.sourceCache.GetEnabledSources()
	if len(sources) == 0 {
		slog.Debug("No enabled source configurations found")
		return
	}

	slog.Debug("Checking enabled sources for scheduling", "count", len(sources))

	now := time.Now().UTC()

	for name, source := range sources {
		if !s.markDue(name, now, time.Duration(source.Settings.RefreshInterval)*time.Second) {
			slog.Debug("Source not due for refresh yet", "source", name)
			continue
		}

		task := NewFetchNewsTask(name, source, s.httpClient, s.postRepo, s.hybrid,
			s.tagger, s.pageExtractor, s.userAgent, s.maxTags)
		if err := s.EnqueueTask(task); err != nil {
			slog.Warn("Failed to enqueue FetchNewsTask", "source", name, "error", err)
		}
	}
}

// markDue reports whether the source is due for a refresh and, if so,
// advances its next due time by the refresh interval.
func (s *Scheduler) markDue(name string, now time.Time, refreshInterval time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if due, ok := s.nextFetchAt[name]; ok && due.After(now) {
		return false
	}

	s.nextFetchAt[name] = now.Add(refreshInterval)
	return true
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "source", task.GetSourceName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
