// Package permission implements the request-authorization predicates and
// their composition. Predicates are stateless and evaluated in declared
// order with short-circuiting; the first failing predicate's message is the
// one surfaced to the client.
package permission

import (
	"net/http"

	"reviewhub/internal/api/apierr"
	"reviewhub/internal/api/models"
)

// Request carries the already-authenticated identity (nil for anonymous
// callers) and the HTTP method under evaluation.
type Request struct {
	Method string
	User   *models.User
}

func (r Request) Authenticated() bool {
	return r.User != nil
}

// SafeMethod reports whether the method is non-mutating.
func SafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// Permission is a single allow/deny predicate over a request.
type Permission interface {
	HasPermission(r Request) bool
	Message() string
}

// ObjectPermission additionally restricts access to a single resource,
// identified here by its author.
type ObjectPermission interface {
	Permission
	HasObjectPermission(r Request, authorID string) bool
}

// Check evaluates perms in order and returns the first failure. Anonymous
// failures map to 401, authenticated ones to 403.
func Check(r Request, perms ...Permission) error {
	for _, p := range perms {
		if !p.HasPermission(r) {
			return deny(r, p.Message())
		}
	}
	return nil
}

// CheckObject runs the object-level phase for the predicates that have one.
// Request-level checks are assumed to have passed already.
func CheckObject(r Request, authorID string, perms ...Permission) error {
	for _, p := range perms {
		op, ok := p.(ObjectPermission)
		if !ok {
			continue
		}
		if !op.HasObjectPermission(r, authorID) {
			return deny(r, op.Message())
		}
	}
	return nil
}

func deny(r Request, message string) error {
	if !r.Authenticated() {
		return apierr.Unauthorized("authentication credentials were not provided")
	}
	return apierr.Forbidden(message)
}

// IsAuthenticated passes for any authenticated caller.
type IsAuthenticated struct{}

func (IsAuthenticated) HasPermission(r Request) bool {
	return r.Authenticated()
}

func (IsAuthenticated) Message() string {
	return "authentication required"
}

// IsAdmin passes only for authenticated administrators.
type IsAdmin struct{}

func (IsAdmin) HasPermission(r Request) bool {
	return r.Authenticated() && r.User.IsAdmin()
}

func (IsAdmin) Message() string {
	return "administrator access required"
}

// IsAdminOrReadOnly allows safe methods for everyone and unsafe methods for
// administrators only.
type IsAdminOrReadOnly struct{}

func (IsAdminOrReadOnly) HasPermission(r Request) bool {
	return SafeMethod(r.Method) || (r.Authenticated() && r.User.IsAdmin())
}

func (IsAdminOrReadOnly) Message() string {
	return "administrator access required"
}

// IsStaffOrAuthorOrReadOnly requires authentication for unsafe methods at
// the collection level; object-level, unsafe methods additionally require a
// moderator, an administrator, or the object's author.
type IsStaffOrAuthorOrReadOnly struct{}

func (IsStaffOrAuthorOrReadOnly) HasPermission(r Request) bool {
	return SafeMethod(r.Method) || r.Authenticated()
}

func (IsStaffOrAuthorOrReadOnly) HasObjectPermission(r Request, authorID string) bool {
	if SafeMethod(r.Method) {
		return true
	}
	if !r.Authenticated() {
		return false
	}
	return r.User.IsEmployee() || r.User.ID == authorID
}

func (IsStaffOrAuthorOrReadOnly) Message() string {
	return "you must be the author, a moderator or an administrator to modify this"
}

// HasUsernameForPOST blocks creation until the profile is completed. It is
// registered last so its message only surfaces once the other predicates
// have passed.
type HasUsernameForPOST struct{}

func (HasUsernameForPOST) HasPermission(r Request) bool {
	return r.Method != http.MethodPost || r.User.HasUsername()
}

func (HasUsernameForPOST) Message() string {
	return "you cannot post reviews or comments before setting a username via PATCH /v1/users/me"
}
