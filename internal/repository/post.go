// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"dilse/internal/cache"
	"dilse/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]models.Post, error)
	React(ctx context.Context, id string, kind models.ReactionKind) (*models.Post, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateFeed(ctx)
	return nil
}

// GetByID serves single-post reads through the per-post cache. Reactions and
// replies invalidate the entry, so cached reads stay within one write of the
// database row.
func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post

	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		err := r.withDetails(r.db.WithContext(ctx)).
			Where("id = ?", id).
			First(&post).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post")
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns posts newest first. A limit of zero returns the whole feed,
// which is the default read. Unauthenticated full-feed reads dominate traffic
// here, so that read is served through the cache.
func (r *postRepository) List(ctx context.Context, limit, offset int) ([]models.Post, error) {
	var posts []models.Post

	load := func() error {
		query := r.withDetails(r.db.WithContext(ctx)).
			Order("created_at DESC, id DESC")
		if limit > 0 {
			query = query.Limit(limit)
		}
		if offset > 0 {
			query = query.Offset(offset)
		}
		return query.Find(&posts).Error
	}

	var err error
	if limit == 0 && offset == 0 {
		err = cache.Aside(ctx, cache.FeedKey, &posts, cache.FeedTTL, load)
	} else {
		err = load()
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

// React atomically increments the requested counter and returns the
// refreshed post. Concurrent reactions from different clients never lose
// updates because the increment happens in SQL.
func (r *postRepository) React(ctx context.Context, id string, kind models.ReactionKind) (*models.Post, error) {
	column := kind.Column()
	if column == "" {
		return nil, models.NewValidationError("Unknown reaction kind")
	}

	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if result.Error != nil {
		return nil, models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, models.NewNotFoundError("Post")
	}

	cache.InvalidatePost(ctx, id)
	return r.GetByID(ctx, id)
}

// withDetails preloads everything the feed payload needs in one place so
// every read path returns posts in the same shape.
func (r *postRepository) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Replies.Author")
}
