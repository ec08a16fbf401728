package service

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"reviewhub/internal/api/apierr"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/permission"
	"reviewhub/internal/api/repository"
)

var ErrCommentNotFound = apierr.NotFound("comment not found")

type CommentService interface {
	List(ctx context.Context, titleID, reviewID int64, page, pageSize int) (*dto.Paginated[dto.CommentResponse], error)
	Get(ctx context.Context, titleID, reviewID, id int64) (dto.CommentResponse, error)
	Create(ctx context.Context, author *models.User, titleID, reviewID int64, in dto.CreateCommentDTO) (dto.CommentResponse, error)
	Update(ctx context.Context, actor *models.User, titleID, reviewID, id int64, in dto.UpdateCommentDTO) (dto.CommentResponse, error)
	Delete(ctx context.Context, actor *models.User, titleID, reviewID, id int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
}

func NewCommentService(commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository) CommentService {
	return &commentService{commentRepo: commentRepo, reviewRepo: reviewRepo}
}

func (s *commentService) List(ctx context.Context, titleID, reviewID int64, page, pageSize int) (*dto.Paginated[dto.CommentResponse], error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comments, total, err := s.commentRepo.ListByReview(ctx, reviewID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, dto.CommentFromModel(&comments[i]))
	}
	return dto.NewPaginated(responses, int(total), page, pageSize), nil
}

func (s *commentService) Get(ctx context.Context, titleID, reviewID, id int64) (dto.CommentResponse, error) {
	comment, err := s.findByID(ctx, titleID, reviewID, id)
	if err != nil {
		return dto.CommentResponse{}, err
	}
	return dto.CommentFromModel(comment), nil
}

func (s *commentService) Create(ctx context.Context, author *models.User, titleID, reviewID int64, in dto.CreateCommentDTO) (dto.CommentResponse, error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return dto.CommentResponse{}, err
	}

	comment := models.Comment{
		AuthorID: author.ID,
		ReviewID: reviewID,
		Text:     in.Text,
	}
	if err := s.commentRepo.Create(ctx, &comment); err != nil {
		return dto.CommentResponse{}, err
	}

	comment.Author = *author
	return dto.CommentFromModel(&comment), nil
}

func (s *commentService) Update(ctx context.Context, actor *models.User, titleID, reviewID, id int64, in dto.UpdateCommentDTO) (dto.CommentResponse, error) {
	comment, err := s.findByID(ctx, titleID, reviewID, id)
	if err != nil {
		return dto.CommentResponse{}, err
	}

	req := permission.Request{Method: http.MethodPatch, User: actor}
	if err := permission.CheckObject(req, comment.AuthorID, permission.IsStaffOrAuthorOrReadOnly{}); err != nil {
		return dto.CommentResponse{}, err
	}

	if in.Text != nil {
		comment.Text = *in.Text
	}

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return dto.CommentResponse{}, err
	}
	return dto.CommentFromModel(comment), nil
}

func (s *commentService) Delete(ctx context.Context, actor *models.User, titleID, reviewID, id int64) error {
	comment, err := s.findByID(ctx, titleID, reviewID, id)
	if err != nil {
		return err
	}

	req := permission.Request{Method: http.MethodDelete, User: actor}
	if err := permission.CheckObject(req, comment.AuthorID, permission.IsStaffOrAuthorOrReadOnly{}); err != nil {
		return err
	}

	return s.commentRepo.Delete(ctx, reviewID, id)
}

// requireReview ensures the review exists under the named title so comments
// are only reachable through their own nesting.
func (s *commentService) requireReview(ctx context.Context, titleID, reviewID int64) error {
	if _, err := s.reviewRepo.GetByID(ctx, titleID, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	return nil
}

func (s *commentService) findByID(ctx context.Context, titleID, reviewID, id int64) (*models.Comment, error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByID(ctx, reviewID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}
