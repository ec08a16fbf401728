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

var (
	ErrReviewNotFound = apierr.NotFound("review not found")
	ErrReviewExists   = apierr.Validation("review already exists")
)

type ReviewService interface {
	List(ctx context.Context, titleID int64, page, pageSize int) (*dto.Paginated[dto.ReviewResponse], error)
	Get(ctx context.Context, titleID, id int64) (dto.ReviewResponse, error)
	// Create posts a review by author; author and title are bound
	// server-side, never taken from the payload.
	Create(ctx context.Context, author *models.User, titleID int64, in dto.CreateReviewDTO) (dto.ReviewResponse, error)
	Update(ctx context.Context, actor *models.User, titleID, id int64, in dto.UpdateReviewDTO) (dto.ReviewResponse, error)
	Delete(ctx context.Context, actor *models.User, titleID, id int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo repository.TitleRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, titleRepo: titleRepo}
}

func (s *reviewService) List(ctx context.Context, titleID int64, page, pageSize int) (*dto.Paginated[dto.ReviewResponse], error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	reviews, total, err := s.reviewRepo.ListByTitle(ctx, titleID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, dto.ReviewFromModel(&reviews[i]))
	}
	return dto.NewPaginated(responses, int(total), page, pageSize), nil
}

func (s *reviewService) Get(ctx context.Context, titleID, id int64) (dto.ReviewResponse, error) {
	review, err := s.findByID(ctx, titleID, id)
	if err != nil {
		return dto.ReviewResponse{}, err
	}
	return dto.ReviewFromModel(review), nil
}

func (s *reviewService) Create(ctx context.Context, author *models.User, titleID int64, in dto.CreateReviewDTO) (dto.ReviewResponse, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return dto.ReviewResponse{}, err
	}

	exists, err := s.reviewRepo.ExistsByAuthorAndTitle(ctx, author.ID, titleID)
	if err != nil {
		return dto.ReviewResponse{}, err
	}
	if exists {
		return dto.ReviewResponse{}, ErrReviewExists
	}

	review := models.Review{
		AuthorID: author.ID,
		TitleID:  titleID,
		Text:     in.Text,
		Score:    in.Score,
	}
	if err := s.reviewRepo.Create(ctx, &review); err != nil {
		// The pre-check above races with concurrent submissions; the
		// composite unique index is the backstop and maps to the same
		// client error.
		if repository.IsUniqueViolation(err) {
			return dto.ReviewResponse{}, ErrReviewExists
		}
		return dto.ReviewResponse{}, err
	}

	review.Author = *author
	return dto.ReviewFromModel(&review), nil
}

func (s *reviewService) Update(ctx context.Context, actor *models.User, titleID, id int64, in dto.UpdateReviewDTO) (dto.ReviewResponse, error) {
	review, err := s.findByID(ctx, titleID, id)
	if err != nil {
		return dto.ReviewResponse{}, err
	}

	req := permission.Request{Method: http.MethodPatch, User: actor}
	if err := permission.CheckObject(req, review.AuthorID, permission.IsStaffOrAuthorOrReadOnly{}); err != nil {
		return dto.ReviewResponse{}, err
	}

	if in.Text != nil {
		review.Text = *in.Text
	}
	if in.Score != nil {
		review.Score = *in.Score
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return dto.ReviewResponse{}, err
	}
	return dto.ReviewFromModel(review), nil
}

func (s *reviewService) Delete(ctx context.Context, actor *models.User, titleID, id int64) error {
	review, err := s.findByID(ctx, titleID, id)
	if err != nil {
		return err
	}

	req := permission.Request{Method: http.MethodDelete, User: actor}
	if err := permission.CheckObject(req, review.AuthorID, permission.IsStaffOrAuthorOrReadOnly{}); err != nil {
		return err
	}

	return s.reviewRepo.Delete(ctx, titleID, id)
}

func (s *reviewService) requireTitle(ctx context.Context, titleID int64) error {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	return nil
}

func (s *reviewService) findByID(ctx context.Context, titleID, id int64) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, titleID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}
