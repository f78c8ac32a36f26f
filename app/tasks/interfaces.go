package tasks

// TaskSchedulerInterface defines the interface for background task scheduling.
// Used by the main application to manage periodic source ingestion.
// Example usage:
//
//	scheduler := NewScheduler(sourceCache, postRepo, hybrid, tagger, pageExtractor, httpClient)
//	scheduler.Start()
//	defer scheduler.Stop()
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
