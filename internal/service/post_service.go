// Package service holds the business rules between HTTP handlers and the
// repositories.
package service

import (
	"context"
	"strings"

	"dilse/internal/models"
	"dilse/internal/repository"
)

const (
	maxTitleLen   = 300
	maxContentLen = 5000
	maxReplyLen   = 1000

	maxPageSize = 100
)

type PostService struct {
	postRepo  repository.PostRepository
	replyRepo repository.ReplyRepository
}

type CreatePostInput struct {
	AuthorID string
	Title    string
	Content  string
	Tag      models.EmotionTagID
}

type ListPostsInput struct {
	Limit  int
	Offset int
}

type ReactInput struct {
	PostID string
	Kind   models.ReactionKind
}

type AddReplyInput struct {
	PostID   string
	AuthorID string
	Content  string
}

func NewPostService(postRepo repository.PostRepository, replyRepo repository.ReplyRepository) *PostService {
	return &PostService{
		postRepo:  postRepo,
		replyRepo: replyRepo,
	}
}

// ListPosts returns the feed, newest first. The default is the whole feed;
// a positive limit caps the page at maxPageSize.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]models.Post, error) {
	limit := in.Limit
	if limit < 0 {
		limit = 0
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}
	return s.postRepo.List(ctx, limit, offset)
}

func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)

	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 5000 characters)")
	}
	if !models.ValidTag(in.Tag) {
		return nil, models.NewValidationError("Unknown emotion tag")
	}

	post := &models.Post{
		Title:    title,
		Content:  content,
		Tag:      in.Tag,
		AuthorID: in.AuthorID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) React(ctx context.Context, in ReactInput) (*models.Post, error) {
	if !in.Kind.Valid() {
		return nil, models.NewValidationError("Unknown reaction kind")
	}
	return s.postRepo.React(ctx, in.PostID, in.Kind)
}

// AddReply appends a reply and returns the refreshed post, so the caller
// always sees the reply in its final position.
func (s *PostService) AddReply(ctx context.Context, in AddReplyInput) (*models.Post, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Reply content is required")
	}
	if len(content) > maxReplyLen {
		return nil, models.NewValidationError("Reply too long (max 1000 characters)")
	}

	// Confirm the post exists before inserting so a bad ID maps to 404
	// rather than a foreign key error.
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	reply := &models.Reply{
		PostID:   in.PostID,
		AuthorID: in.AuthorID,
		Content:  content,
	}
	if err := s.replyRepo.Create(ctx, reply); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, in.PostID)
}
