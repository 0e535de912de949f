package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hatef97/office-supplies-website/internal/apperr"
	"github.com/hatef97/office-supplies-website/internal/models"
	"github.com/hatef97/office-supplies-website/internal/mykafka"
	"github.com/hatef97/office-supplies-website/internal/repo"
	"github.com/hatef97/office-supplies-website/internal/transport"
)

type CommentService struct {
	Repo      *repo.GormRepo
	Publisher EventPublisher
}

func (s *CommentService) List(ctx context.Context, productID uint) ([]models.Comment, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	items, err := s.Repo.ListComments(ctx, productID)
	if err != nil {
		return nil, apperr.Internal(err, "list comments")
	}
	return items, nil
}

// Create stores the comment as waiting for moderation whatever the caller sends.
func (s *CommentService) Create(ctx context.Context, productID uint, req transport.CreateCommentRequest) (*models.Comment, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	c := &models.Comment{
		ProductID: productID,
		Name:      strings.TrimSpace(req.Name),
		Body:      req.Body,
		Status:    models.CommentStatusWaiting,
	}
	if err := s.Repo.CreateComment(ctx, c); err != nil {
		return nil, apperr.Internal(err, "create comment")
	}

	publish(ctx, s.Publisher, mykafka.TopicProductEvents, strconv.FormatUint(uint64(productID), 10), map[string]any{
		"type":       "comment_created",
		"product_id": productID,
		"comment_id": c.ID,
	})
	return c, nil
}

func (s *CommentService) Get(ctx context.Context, productID, id uint) (*models.Comment, error) {
	c, err := s.Repo.GetComment(ctx, productID, id)
	if err != nil {
		return nil, notFoundOr(err, "Comment", "get comment")
	}
	return c, nil
}

func (s *CommentService) UpdateStatus(ctx context.Context, actor Actor, productID, id uint, status string) (*models.Comment, error) {
	if !actor.IsStaff {
		return nil, apperr.Forbidden()
	}
	if !models.IsValidCommentStatus(status) {
		return nil, apperr.Field("status", fmt.Sprintf("%q is not a valid choice.", status))
	}
	if err := s.Repo.UpdateCommentStatus(ctx, productID, id, status); err != nil {
		return nil, notFoundOr(err, "Comment", "update comment status")
	}
	return s.Get(ctx, productID, id)
}

func (s *CommentService) Delete(ctx context.Context, actor Actor, productID, id uint) error {
	if !actor.IsStaff {
		return apperr.Forbidden()
	}
	if err := s.Repo.DeleteComment(ctx, productID, id); err != nil {
		return notFoundOr(err, "Comment", "delete comment")
	}
	return nil
}

func (s *CommentService) requireProduct(ctx context.Context, productID uint) error {
	ok, err := s.Repo.ProductExists(ctx, productID)
	if err != nil {
		return apperr.Internal(err, "check product")
	}
	if !ok {
		return apperr.NotFound("Product")
	}
	return nil
}
