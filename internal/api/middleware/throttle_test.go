package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"reviewhub/internal/api/models"
)

func throttleRouter(t *testing.T, rate int, user *models.User) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	throttle := NewScopedThrottle(rdb, rate, time.Minute, logrus.New())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set(userContextKey, user)
		}
		c.Next()
	})
	r.GET("/ping", throttle.Limit(ScopeBurstNonEmployee), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, mr
}

func doGet(r *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLimit_UnderLimit(t *testing.T) {
	username := "alice"
	user := &models.User{ID: "user-1", Username: &username, Role: models.RoleUser}
	r, _ := throttleRouter(t, 3, user)

	for i := 0; i < 3; i++ {
		w := doGet(r, "1.2.3.4:1000")
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestLimit_OverLimit(t *testing.T) {
	username := "alice"
	user := &models.User{ID: "user-1", Username: &username, Role: models.RoleUser}
	r, _ := throttleRouter(t, 2, user)

	doGet(r, "1.2.3.4:1000")
	doGet(r, "1.2.3.4:1000")
	w := doGet(r, "1.2.3.4:1000")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestLimit_EmployeeExempt(t *testing.T) {
	username := "mod"
	user := &models.User{ID: "mod-1", Username: &username, Role: models.RoleModerator}
	r, mr := throttleRouter(t, 1, user)

	for i := 0; i < 5; i++ {
		w := doGet(r, "1.2.3.4:1000")
		assert.Equal(t, http.StatusOK, w.Code)
	}
	// No counter is ever touched for exempt callers.
	assert.Empty(t, mr.Keys())
}

func TestLimit_AnonymousKeyedByIP(t *testing.T) {
	r, _ := throttleRouter(t, 1, nil)

	assert.Equal(t, http.StatusOK, doGet(r, "10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusTooManyRequests, doGet(r, "10.0.0.1:1000").Code)

	// A different client IP has its own window.
	assert.Equal(t, http.StatusOK, doGet(r, "10.0.0.2:1000").Code)
}

func TestLimit_AuthenticatedKeyedByUserID(t *testing.T) {
	username := "alice"
	user := &models.User{ID: "user-1", Username: &username, Role: models.RoleUser}
	r, mr := throttleRouter(t, 5, user)

	doGet(r, "1.2.3.4:1000")
	assert.Contains(t, mr.Keys(), "throttle:burst-non-employee:user-1")
}

func TestLimit_FailOpenOnRedisOutage(t *testing.T) {
	username := "alice"
	user := &models.User{ID: "user-1", Username: &username, Role: models.RoleUser}
	r, mr := throttleRouter(t, 1, user)

	mr.Close()

	// With the counter store down every request goes through.
	assert.Equal(t, http.StatusOK, doGet(r, "1.2.3.4:1000").Code)
	assert.Equal(t, http.StatusOK, doGet(r, "1.2.3.4:1000").Code)
}
