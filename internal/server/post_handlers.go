package server

import (
	"context"
	"log"

	"dilse/internal/models"
	"dilse/internal/notifications"
	"dilse/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
// @Summary List posts
// @Description Returns the feed, newest first, with authors and replies
// @Tags posts
// @Produce json
// @Param limit query int false "Optional page size (max 100); omitted returns the whole feed"
// @Param offset query int false "Offset into the feed"
// @Success 200 {array} models.Post
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c)

	posts, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
// @Summary Get one post
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// GetTags handles GET /api/tags
// @Summary Emotion tag catalog
// @Tags tags
// @Produce json
// @Success 200 {array} models.EmotionTag
// @Router /tags [get]
func (s *Server) GetTags(c *fiber.Ctx) error {
	return c.JSON(models.EmotionTags)
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Description Publish a new anonymous confession with an emotion tag
// @Tags posts
// @Accept json
// @Produce json
// @Param request body object{title=string,content=string,tag=string} true "Post payload"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		Tag     string `json:"tag"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		AuthorID: currentUserID(c),
		Title:    req.Title,
		Content:  req.Content,
		Tag:      models.EmotionTagID(req.Tag),
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishFeedEvent(notifications.EventPostCreated, post)
	return c.Status(fiber.StatusCreated).JSON(post)
}

// ReactToPost handles POST /api/posts/:id/react
// @Summary React to a post
// @Description Increment the hearts or flowers counter on a post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param request body object{reaction=string} true "Reaction kind: hearts or flowers"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id}/react [post]
func (s *Server) ReactToPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Reaction string `json:"reaction"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.React(c.Context(), service.ReactInput{
		PostID: id,
		Kind:   models.ReactionKind(req.Reaction),
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishFeedEvent(notifications.EventPostReacted, post)
	return c.JSON(post)
}

// AddReply handles POST /api/posts/:id/reply
// @Summary Reply to a post
// @Description Append a reply and return the updated post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param request body object{content=string} true "Reply payload"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id}/reply [post]
func (s *Server) AddReply(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.AddReply(c.Context(), service.AddReplyInput{
		PostID:   id,
		AuthorID: currentUserID(c),
		Content:  req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishFeedEvent(notifications.EventReplyAdded, post)
	return c.Status(fiber.StatusCreated).JSON(post)
}

// publishFeedEvent pushes a feed event to live subscribers. Delivery is best
// effort; the HTTP response never waits on it.
func (s *Server) publishFeedEvent(eventType string, post *models.Post) {
	if s.hub == nil {
		return
	}
	event := notifications.FeedEvent{Type: eventType, Post: post}
	if err := s.hub.Notifier().PublishFeed(context.Background(), event); err != nil {
		log.Printf("failed to publish %s event: %v", eventType, err)
	}
}
