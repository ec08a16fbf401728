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
	"reviewhub/internal/api/repository"
)

// mockTitleSvc mocks the TitleService interface
type mockTitleSvc struct {
	mock.Mock
}

func (m *mockTitleSvc) List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.Paginated[dto.TitleResponse], error) {
	args := m.Called(ctx, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.TitleResponse]), args.Error(1)
}

func (m *mockTitleSvc) Get(ctx context.Context, id int64) (dto.TitleResponse, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(dto.TitleResponse), args.Error(1)
}

func (m *mockTitleSvc) Create(ctx context.Context, in dto.CreateTitleDTO) (dto.TitleResponse, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(dto.TitleResponse), args.Error(1)
}

func (m *mockTitleSvc) Update(ctx context.Context, id int64, in dto.UpdateTitleDTO) (dto.TitleResponse, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(dto.TitleResponse), args.Error(1)
}

func (m *mockTitleSvc) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func titleRouter(svc *mockTitleSvc, user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	grp := r.Group("/v1/titles")
	grp.Use(func(c *gin.Context) {
		if user != nil {
			c.Set("user", user)
		}
		c.Next()
	})
	NewTitleHandler(svc).RegisterRoutes(grp)
	return r
}

func TestTitleList_FilterParams(t *testing.T) {
	year := 1999
	want := repository.TitleFilter{Name: "winter", Year: &year, Genre: "drama", Category: "movies"}

	svc := new(mockTitleSvc)
	svc.On("List", mock.Anything, want, 1, 20).
		Return(dto.NewPaginated([]dto.TitleResponse{{ID: 1, Name: "Winter Tale"}}, 1, 1, 20), nil)

	r := titleRouter(svc, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/v1/titles?name=winter&year=1999&genre=drama&category=movies", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Winter Tale")
	assert.Contains(t, w.Body.String(), `"total":1`)
	svc.AssertExpectations(t)
}

func TestTitleList_NoFilters(t *testing.T) {
	svc := new(mockTitleSvc)
	svc.On("List", mock.Anything, repository.TitleFilter{}, 2, 5).
		Return(dto.NewPaginated([]dto.TitleResponse{}, 0, 2, 5), nil)

	r := titleRouter(svc, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/titles?page=2&page_size=5", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestTitleList_InvalidYear(t *testing.T) {
	svc := new(mockTitleSvc)
	r := titleRouter(svc, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/titles?year=next", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTitleGet_MalformedID(t *testing.T) {
	svc := new(mockTitleSvc)
	r := titleRouter(svc, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/titles/abc", nil))

	// A non-numeric id can never name a resource, so it reads as absent.
	assert.Equal(t, http.StatusNotFound, w.Code)
	svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestTitleCreate_AnonymousRejected(t *testing.T) {
	svc := new(mockTitleSvc)
	r := titleRouter(svc, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/titles",
		strings.NewReader(`{"name":"Winter Tale","genre":["drama"]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTitleCreate_NonAdminForbidden(t *testing.T) {
	username := "alice"
	user := &models.User{ID: "user-1", Username: &username, Role: models.RoleUser}
	svc := new(mockTitleSvc)
	r := titleRouter(svc, user)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/titles",
		strings.NewReader(`{"name":"Winter Tale","genre":["drama"]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTitleCreate_Admin(t *testing.T) {
	username := "root"
	admin := &models.User{ID: "admin-1", Username: &username, Role: models.RoleAdmin}
	svc := new(mockTitleSvc)
	svc.On("Create", mock.Anything, dto.CreateTitleDTO{Name: "Winter Tale", Genre: []string{"drama"}}).
		Return(dto.TitleResponse{ID: 1, Name: "Winter Tale"}, nil)

	r := titleRouter(svc, admin)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/titles",
		strings.NewReader(`{"name":"Winter Tale","genre":["drama"]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}
