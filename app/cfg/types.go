package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	SourcesDir        string
	Port              string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Blob storage configuration
	BlobBaseURL   string
	BlobContainer string
	BlobAccessKey string

	// AI tagging configuration
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	MaxTags       int

	// Blob read cache configuration
	RedisAddr string
	CacheTTL  int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
