package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
)

// mockCategorySvc mocks the CategoryService interface
type mockCategorySvc struct {
	mock.Mock
}

func (m *mockCategorySvc) List(ctx context.Context, search string, page, pageSize int) (*dto.Paginated[dto.CategoryResponse], error) {
	args := m.Called(ctx, search, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.CategoryResponse]), args.Error(1)
}

func (m *mockCategorySvc) Create(ctx context.Context, in dto.CreateCategoryDTO) (dto.CategoryResponse, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(dto.CategoryResponse), args.Error(1)
}

func (m *mockCategorySvc) DeleteBySlug(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

func categoryRouter(svc *mockCategorySvc, user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	grp := r.Group("/v1/categories")
	grp.Use(func(c *gin.Context) {
		if user != nil {
			c.Set("user", user)
		}
		c.Next()
	})
	NewCategoryHandler(svc).RegisterRoutes(grp)
	return r
}

func TestCategoryList_Anonymous(t *testing.T) {
	svc := new(mockCategorySvc)
	svc.On("List", mock.Anything, "", 1, 20).
		Return(dto.NewPaginated([]dto.CategoryResponse{{Name: "Movies", Slug: "movies"}}, 1, 1, 20), nil)

	r := categoryRouter(svc, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/categories", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "movies")
	// Lists are wrapped in the shared pagination envelope.
	assert.Contains(t, w.Body.String(), `"page":1`)
	assert.Contains(t, w.Body.String(), `"total":1`)
	svc.AssertExpectations(t)
}

func TestCategoryList_PaginationParams(t *testing.T) {
	svc := new(mockCategorySvc)
	svc.On("List", mock.Anything, "Movies", 2, 5).
		Return(dto.NewPaginated([]dto.CategoryResponse{}, 0, 2, 5), nil)

	r := categoryRouter(svc, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/categories?search=Movies&page=2&page_size=5", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestCategoryCreate_AnonymousRejected(t *testing.T) {
	svc := new(mockCategorySvc)
	r := categoryRouter(svc, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/categories", strings.NewReader(`{"name":"Movies","slug":"movies"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCategoryCreate_NonAdminForbidden(t *testing.T) {
	username := "alice"
	user := &models.User{ID: "user-1", Username: &username, Role: models.RoleUser}
	svc := new(mockCategorySvc)
	r := categoryRouter(svc, user)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/categories", strings.NewReader(`{"name":"Movies","slug":"movies"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCategoryCreate_Admin(t *testing.T) {
	username := "root"
	admin := &models.User{ID: "admin-1", Username: &username, Role: models.RoleAdmin}
	svc := new(mockCategorySvc)
	svc.On("Create", mock.Anything, dto.CreateCategoryDTO{Name: "Movies", Slug: "movies"}).
		Return(dto.CategoryResponse{Name: "Movies", Slug: "movies"}, nil)

	r := categoryRouter(svc, admin)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/categories", strings.NewReader(`{"name":"Movies","slug":"movies"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestCategoryCreate_MissingSlug(t *testing.T) {
	username := "root"
	admin := &models.User{ID: "admin-1", Username: &username, Role: models.RoleAdmin}
	svc := new(mockCategorySvc)
	r := categoryRouter(svc, admin)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/categories", strings.NewReader(`{"name":"Movies"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Slug")
}
