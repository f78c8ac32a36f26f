package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/teerapat-l/presswire/app/storage"
)

// PostRepositoryImpl handles database operations for posts
type PostRepositoryImpl struct {
	db *DB
}

var _ PostRepository = (*PostRepositoryImpl)(nil)

func NewPostRepository(db *DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{db: db}
}

const postColumns = `id, title, author, thumbnail_url, content, content_storage,
	content_blob_url, tags, source_name, source_url, original_date,
	reading_time_minutes, auto_fetched, fetch_order, fetched_at, created_at, updated_at`

// ExistsBySourceURL reports whether a post has already been ingested for the
// given external source URL
func (r *PostRepositoryImpl) ExistsBySourceURL(sourceURL string) (bool, error) {
	var id string
	err := r.db.QueryRow(`SELECT id FROM posts WHERE source_url = $1 LIMIT 1`, sourceURL).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check post existence: %w", err)
	}
	return true, nil
}

// MaxFetchOrder returns the highest fetch_order among auto-fetched posts,
// or zero when none exist
func (r *PostRepositoryImpl) MaxFetchOrder() (int, error) {
	var max sql.NullInt64
	err := r.db.QueryRow(`SELECT MAX(fetch_order) FROM posts WHERE auto_fetched = 1`).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("failed to get max fetch order: %w", err)
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64), nil
}

func (r *PostRepositoryImpl) InsertPost(post Post) error {
	tags, err := json.Marshal(post.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO posts (
			id, title, author, thumbnail_url, content, content_storage,
			content_blob_url, tags, source_name, source_url, original_date,
			reading_time_minutes, auto_fetched, fetch_order, fetched_at,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`, post.ID, post.Title, post.Author, post.ThumbnailURL, post.Content,
		string(post.ContentStorage), post.ContentBlobURL, string(tags),
		post.SourceName, post.SourceURL, post.OriginalDate, post.ReadingTime,
		post.AutoFetched, post.FetchOrder, post.FetchedAt, post.CreatedAt, post.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	return nil
}

func (r *PostRepositoryImpl) GetPost(id string) (*Post, error) {
	row := r.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = $1`, id)

	post, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return post, nil
}

// GetPosts returns posts ordered newest-first: auto-fetched posts by their
// ingestion sequence, then by source publish time
func (r *PostRepositoryImpl) GetPosts(limit, offset int) ([]Post, error) {
	rows, err := r.db.Query(`
		SELECT `+postColumns+`
		FROM posts
		ORDER BY fetch_order DESC, created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get posts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, *post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, nil
}

func (r *PostRepositoryImpl) GetPostCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get post count: %w", err)
	}
	return count, nil
}

func (r *PostRepositoryImpl) GetPostStats() (total, autoFetched, manual int, err error) {
	err = r.db.QueryRow(`
		SELECT
			COUNT(*) as total,
			COALESCE(SUM(CASE WHEN auto_fetched = 1 THEN 1 ELSE 0 END), 0) as auto_fetched,
			COALESCE(SUM(CASE WHEN auto_fetched = 0 THEN 1 ELSE 0 END), 0) as manual
		FROM posts
	`).Scan(&total, &autoFetched, &manual)

	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to get post stats: %w", err)
	}

	return total, autoFetched, manual, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (*Post, error) {
	var post Post
	var tier string
	var tags string

	err := row.Scan(
		&post.ID, &post.Title, &post.Author, &post.ThumbnailURL, &post.Content,
		&tier, &post.ContentBlobURL, &tags, &post.SourceName, &post.SourceURL,
		&post.OriginalDate, &post.ReadingTime, &post.AutoFetched, &post.FetchOrder,
		&post.FetchedAt, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	post.ContentStorage = storage.Tier(tier)

	if err := json.Unmarshal([]byte(tags), &post.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}

	return &post, nil
}
