package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"reviewhub/internal/api/apierr"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
)

var ErrTitleNotFound = apierr.NotFound("title not found")

type TitleService interface {
	List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.Paginated[dto.TitleResponse], error)
	Get(ctx context.Context, id int64) (dto.TitleResponse, error)
	Create(ctx context.Context, in dto.CreateTitleDTO) (dto.TitleResponse, error)
	Update(ctx context.Context, id int64, in dto.UpdateTitleDTO) (dto.TitleResponse, error)
	Delete(ctx context.Context, id int64) error
}

type titleService struct {
	titleRepo    repository.TitleRepository
	genreRepo    repository.GenreRepository
	categoryRepo repository.CategoryRepository
	reviewRepo   repository.ReviewRepository
}

func NewTitleService(
	titleRepo repository.TitleRepository,
	genreRepo repository.GenreRepository,
	categoryRepo repository.CategoryRepository,
	reviewRepo repository.ReviewRepository,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		genreRepo:    genreRepo,
		categoryRepo: categoryRepo,
		reviewRepo:   reviewRepo,
	}
}

func (s *titleService) List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.Paginated[dto.TitleResponse], error) {
	titles, total, err := s.titleRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(titles))
	for _, t := range titles {
		ids = append(ids, t.ID)
	}
	ratings, err := s.reviewRepo.AverageScores(ctx, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TitleResponse, 0, len(titles))
	for _, t := range titles {
		var rating *float64
		if avg, ok := ratings[t.ID]; ok {
			rating = &avg
		}
		responses = append(responses, dto.TitleFromModel(t, rating))
	}
	return dto.NewPaginated(responses, int(total), page, pageSize), nil
}

func (s *titleService) Get(ctx context.Context, id int64) (dto.TitleResponse, error) {
	title, err := s.findByID(ctx, id)
	if err != nil {
		return dto.TitleResponse{}, err
	}
	rating, err := s.reviewRepo.AverageScore(ctx, id)
	if err != nil {
		return dto.TitleResponse{}, err
	}
	return dto.TitleFromModel(*title, rating), nil
}

func (s *titleService) Create(ctx context.Context, in dto.CreateTitleDTO) (dto.TitleResponse, error) {
	genres, err := s.resolveGenres(ctx, in.Genre)
	if err != nil {
		return dto.TitleResponse{}, err
	}

	title := models.Title{
		Name:        in.Name,
		Year:        in.Year,
		Description: in.Description,
	}

	if in.Category != nil {
		category, err := s.resolveCategory(ctx, *in.Category)
		if err != nil {
			return dto.TitleResponse{}, err
		}
		title.CategoryID = &category.ID
		title.Category = category
	}

	if err := s.titleRepo.Create(ctx, &title); err != nil {
		return dto.TitleResponse{}, err
	}
	if err := s.titleRepo.ReplaceGenres(ctx, &title, genres); err != nil {
		return dto.TitleResponse{}, err
	}

	return dto.TitleFromModel(title, nil), nil
}

func (s *titleService) Update(ctx context.Context, id int64, in dto.UpdateTitleDTO) (dto.TitleResponse, error) {
	title, err := s.findByID(ctx, id)
	if err != nil {
		return dto.TitleResponse{}, err
	}

	if in.Name != nil {
		title.Name = *in.Name
	}
	if in.Year != nil {
		title.Year = in.Year
	}
	if in.Description != nil {
		title.Description = *in.Description
	}
	if in.Category != nil {
		category, err := s.resolveCategory(ctx, *in.Category)
		if err != nil {
			return dto.TitleResponse{}, err
		}
		title.CategoryID = &category.ID
		title.Category = category
	}

	if err := s.titleRepo.Update(ctx, title); err != nil {
		return dto.TitleResponse{}, err
	}

	if in.Genre != nil {
		genres, err := s.resolveGenres(ctx, in.Genre)
		if err != nil {
			return dto.TitleResponse{}, err
		}
		if err := s.titleRepo.ReplaceGenres(ctx, title, genres); err != nil {
			return dto.TitleResponse{}, err
		}
	}

	rating, err := s.reviewRepo.AverageScore(ctx, id)
	if err != nil {
		return dto.TitleResponse{}, err
	}
	return dto.TitleFromModel(*title, rating), nil
}

func (s *titleService) Delete(ctx context.Context, id int64) error {
	if err := s.titleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	return nil
}

func (s *titleService) findByID(ctx context.Context, id int64) (*models.Title, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}
	return title, nil
}

// resolveGenres maps slugs to existing genre rows; unknown slugs are a
// validation error naming the offender.
func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]models.Genre, error) {
	genres, err := s.genreRepo.GetBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}

	found := make(map[string]bool, len(genres))
	for _, g := range genres {
		found[g.Slug] = true
	}
	for _, slug := range slugs {
		if !found[slug] {
			return nil, apierr.Validation(fmt.Sprintf("unknown genre slug: %s", slug))
		}
	}
	return genres, nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.Validation(fmt.Sprintf("unknown category slug: %s", slug))
		}
		return nil, err
	}
	return category, nil
}
