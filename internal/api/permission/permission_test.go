package permission

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"reviewhub/internal/api/apierr"
	"reviewhub/internal/api/models"
)

func userWithRole(role models.Role) *models.User {
	username := "someone"
	return &models.User{ID: "user-1", Username: &username, Role: role}
}

func TestSafeMethod(t *testing.T) {
	assert.True(t, SafeMethod(http.MethodGet))
	assert.True(t, SafeMethod(http.MethodHead))
	assert.True(t, SafeMethod(http.MethodOptions))
	assert.False(t, SafeMethod(http.MethodPost))
	assert.False(t, SafeMethod(http.MethodPatch))
	assert.False(t, SafeMethod(http.MethodDelete))
}

func TestIsAdminOrReadOnly(t *testing.T) {
	p := IsAdminOrReadOnly{}

	assert.True(t, p.HasPermission(Request{Method: http.MethodGet, User: nil}))
	assert.True(t, p.HasPermission(Request{Method: http.MethodGet, User: userWithRole(models.RoleUser)}))
	assert.False(t, p.HasPermission(Request{Method: http.MethodPost, User: nil}))
	assert.False(t, p.HasPermission(Request{Method: http.MethodPost, User: userWithRole(models.RoleUser)}))
	assert.False(t, p.HasPermission(Request{Method: http.MethodPost, User: userWithRole(models.RoleModerator)}))
	assert.True(t, p.HasPermission(Request{Method: http.MethodPost, User: userWithRole(models.RoleAdmin)}))
}

func TestIsStaffOrAuthorOrReadOnly_ObjectLevel(t *testing.T) {
	p := IsStaffOrAuthorOrReadOnly{}
	author := userWithRole(models.RoleUser)

	// Reads are always allowed, even anonymously.
	assert.True(t, p.HasObjectPermission(Request{Method: http.MethodGet, User: nil}, author.ID))

	// The author can modify their own object.
	assert.True(t, p.HasObjectPermission(Request{Method: http.MethodPatch, User: author}, author.ID))

	// Another regular user cannot.
	stranger := userWithRole(models.RoleUser)
	stranger.ID = "user-2"
	assert.False(t, p.HasObjectPermission(Request{Method: http.MethodPatch, User: stranger}, author.ID))

	// Moderators and admins can.
	assert.True(t, p.HasObjectPermission(Request{Method: http.MethodDelete, User: userWithRole(models.RoleModerator)}, author.ID))
	assert.True(t, p.HasObjectPermission(Request{Method: http.MethodDelete, User: userWithRole(models.RoleAdmin)}, author.ID))
}

func TestHasUsernameForPOST(t *testing.T) {
	p := HasUsernameForPOST{}

	incomplete := &models.User{ID: "user-1", Role: models.RoleUser}
	assert.False(t, p.HasPermission(Request{Method: http.MethodPost, User: incomplete}))

	// Only creation is gated on a completed profile.
	assert.True(t, p.HasPermission(Request{Method: http.MethodGet, User: incomplete}))
	assert.True(t, p.HasPermission(Request{Method: http.MethodPatch, User: incomplete}))

	assert.True(t, p.HasPermission(Request{Method: http.MethodPost, User: userWithRole(models.RoleUser)}))
}

func TestCheck_AnonymousFailureIs401(t *testing.T) {
	err := Check(Request{Method: http.MethodPost, User: nil}, IsAuthenticated{})

	var apiErr *apierr.Error
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestCheck_AuthenticatedFailureIs403(t *testing.T) {
	err := Check(Request{Method: http.MethodPost, User: userWithRole(models.RoleUser)}, IsAdmin{})

	var apiErr *apierr.Error
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, IsAdmin{}.Message(), apiErr.Message)
}

func TestCheck_FirstFailingMessageWins(t *testing.T) {
	// A profile-incomplete non-admin fails both predicates; the first
	// registered one supplies the message.
	incomplete := &models.User{ID: "user-1", Role: models.RoleUser}
	err := Check(Request{Method: http.MethodPost, User: incomplete}, IsAdmin{}, HasUsernameForPOST{})

	var apiErr *apierr.Error
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, IsAdmin{}.Message(), apiErr.Message)
}

func TestCheck_AllPass(t *testing.T) {
	err := Check(Request{Method: http.MethodPost, User: userWithRole(models.RoleAdmin)}, IsAuthenticated{}, IsAdmin{})
	assert.NoError(t, err)
}

func TestCheckObject_SkipsRequestOnlyPredicates(t *testing.T) {
	// IsAuthenticated has no object phase; CheckObject must ignore it.
	err := CheckObject(Request{Method: http.MethodPatch, User: userWithRole(models.RoleUser)}, "user-1",
		IsAuthenticated{}, IsStaffOrAuthorOrReadOnly{})
	assert.NoError(t, err)
}
