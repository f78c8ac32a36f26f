package database

type PostRepository interface {
	GetPost(id string) (*Post, error)
	GetPosts(limit, offset int) ([]Post, error)
	GetPostCount() (int, error)
	GetPostStats() (total, autoFetched, manual int, err error)

	InsertPost(post Post) error

	ExistsBySourceURL(sourceURL string) (bool, error)
	MaxFetchOrder() (int, error)
}
