package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"reviewhub/internal/api/apierr"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
)

// MockGenreRepository mocks the GenreRepository interface
type MockGenreRepository struct {
	mock.Mock
}

func (m *MockGenreRepository) List(ctx context.Context, search string, page, pageSize int) ([]models.Genre, int64, error) {
	args := m.Called(ctx, search, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Genre), args.Get(1).(int64), args.Error(2)
}

func (m *MockGenreRepository) GetBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Genre), args.Error(1)
}

func (m *MockGenreRepository) GetBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	args := m.Called(ctx, slugs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Genre), args.Error(1)
}

func (m *MockGenreRepository) Create(ctx context.Context, genre *models.Genre) error {
	args := m.Called(ctx, genre)
	return args.Error(0)
}

func (m *MockGenreRepository) DeleteBySlug(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

// MockCategoryRepository mocks the CategoryRepository interface
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) List(ctx context.Context, search string, page, pageSize int) ([]models.Category, int64, error) {
	args := m.Called(ctx, search, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Category), args.Get(1).(int64), args.Error(2)
}

func (m *MockCategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) DeleteBySlug(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

func newTitleServiceMocks() (*MockTitleRepository, *MockGenreRepository, *MockCategoryRepository, *MockReviewRepository, TitleService) {
	titleRepo := new(MockTitleRepository)
	genreRepo := new(MockGenreRepository)
	categoryRepo := new(MockCategoryRepository)
	reviewRepo := new(MockReviewRepository)
	svc := NewTitleService(titleRepo, genreRepo, categoryRepo, reviewRepo)
	return titleRepo, genreRepo, categoryRepo, reviewRepo, svc
}

func TestListTitles_FilterPassthroughAndRatings(t *testing.T) {
	titleRepo, _, _, reviewRepo, svc := newTitleServiceMocks()

	filter := repository.TitleFilter{Name: "winter", Genre: "drama"}
	titles := []models.Title{{ID: 2, Name: "Winter Tale"}, {ID: 1, Name: "Winterfell"}}
	titleRepo.On("List", mock.Anything, filter, 1, 20).Return(titles, int64(2), nil)
	reviewRepo.On("AverageScores", mock.Anything, []int64{2, 1}).
		Return(map[int64]float64{2: 6.666666}, nil)

	resp, err := svc.List(context.Background(), filter, 1, 20)
	assert.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Len(t, resp.Data, 2)

	// Rated title carries the rounded average, unrated one stays null.
	assert.NotNil(t, resp.Data[0].Rating)
	assert.Equal(t, 6.67, *resp.Data[0].Rating)
	assert.Nil(t, resp.Data[1].Rating)
	titleRepo.AssertExpectations(t)
}

func TestGetTitle_NoReviewsNilRating(t *testing.T) {
	titleRepo, _, _, reviewRepo, svc := newTitleServiceMocks()

	titleRepo.On("GetByID", mock.Anything, int64(5)).Return(&models.Title{ID: 5, Name: "Quiet"}, nil)
	reviewRepo.On("AverageScore", mock.Anything, int64(5)).Return(nil, nil)

	resp, err := svc.Get(context.Background(), 5)
	assert.NoError(t, err)
	assert.Nil(t, resp.Rating)
}

func TestGetTitle_NotFound(t *testing.T) {
	titleRepo, _, _, _, svc := newTitleServiceMocks()

	titleRepo.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(context.Background(), 404)
	assert.ErrorIs(t, err, ErrTitleNotFound)
}

func TestCreateTitle_WithCategoryAndGenres(t *testing.T) {
	titleRepo, genreRepo, categoryRepo, _, svc := newTitleServiceMocks()

	genres := []models.Genre{{ID: 1, Name: "Drama", Slug: "drama"}}
	genreRepo.On("GetBySlugs", mock.Anything, []string{"drama"}).Return(genres, nil)
	categoryRepo.On("GetBySlug", mock.Anything, "movies").
		Return(&models.Category{ID: 3, Name: "Movies", Slug: "movies"}, nil)
	titleRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Title")).Return(nil)
	titleRepo.On("ReplaceGenres", mock.Anything, mock.AnythingOfType("*models.Title"), genres).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Title).Genres = genres
		}).Return(nil)

	category := "movies"
	resp, err := svc.Create(context.Background(), dto.CreateTitleDTO{
		Name:     "Winter Tale",
		Genre:    []string{"drama"},
		Category: &category,
	})
	assert.NoError(t, err)
	assert.NotNil(t, resp.Category)
	assert.Equal(t, "movies", resp.Category.Slug)
	assert.Len(t, resp.Genre, 1)
	titleRepo.AssertExpectations(t)
}

func TestCreateTitle_UnknownGenreSlug(t *testing.T) {
	titleRepo, genreRepo, _, _, svc := newTitleServiceMocks()

	genreRepo.On("GetBySlugs", mock.Anything, []string{"drama", "nope"}).
		Return([]models.Genre{{ID: 1, Slug: "drama"}}, nil)

	_, err := svc.Create(context.Background(), dto.CreateTitleDTO{
		Name:  "Winter Tale",
		Genre: []string{"drama", "nope"},
	})

	var apiErr *apierr.Error
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Message, "nope")
	titleRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateTitle_UnknownCategorySlug(t *testing.T) {
	titleRepo, genreRepo, categoryRepo, _, svc := newTitleServiceMocks()

	genreRepo.On("GetBySlugs", mock.Anything, []string{"drama"}).
		Return([]models.Genre{{ID: 1, Slug: "drama"}}, nil)
	categoryRepo.On("GetBySlug", mock.Anything, "nope").Return(nil, gorm.ErrRecordNotFound)

	category := "nope"
	_, err := svc.Create(context.Background(), dto.CreateTitleDTO{
		Name:     "Winter Tale",
		Genre:    []string{"drama"},
		Category: &category,
	})

	var apiErr *apierr.Error
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Message, "nope")
	titleRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateTitle_GenresReplacedOnlyWhenSent(t *testing.T) {
	titleRepo, _, _, reviewRepo, svc := newTitleServiceMocks()

	title := &models.Title{ID: 5, Name: "Old Name"}
	titleRepo.On("GetByID", mock.Anything, int64(5)).Return(title, nil)
	titleRepo.On("Update", mock.Anything, title).Return(nil)
	reviewRepo.On("AverageScore", mock.Anything, int64(5)).Return(nil, nil)

	name := "New Name"
	resp, err := svc.Update(context.Background(), 5, dto.UpdateTitleDTO{Name: &name})
	assert.NoError(t, err)
	assert.Equal(t, "New Name", resp.Name)
	titleRepo.AssertNotCalled(t, "ReplaceGenres", mock.Anything, mock.Anything, mock.Anything)
}
