package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/campus-attendance-go/internal/domain/approval"
	"github.com/cmlabs-hris/campus-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/campus-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// RequirePermission checks if user has specific permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok || !user.HasPermission(p.Role, permission) {
				response.HandleError(w, fmt.Errorf("%w: required '%s', but user role is '%s'", user.ErrInsufficientPermissions, permission, p.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireStageRole lets the request through only when the caller's role
// decides the stage named by the URL parameter param.
func RequireStageRole(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				response.HandleError(w, user.ErrStageRoleRequired)
				return
			}

			stage, ok := approval.ParseStageName(chi.URLParam(r, param))
			if !ok {
				response.HandleError(w, approval.ErrUnknownStage)
				return
			}

			if !p.Role.CanDecide(stage) {
				response.HandleError(w, user.ErrStageRoleRequired)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireStudentAccess keeps students to their own data. Staff pass
// through. The student ID is read from the URL parameter param.
func RequireStudentAccess(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok || !p.CanAccessStudent(chi.URLParam(r, param)) {
				response.HandleError(w, user.ErrStudentAccessDenied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
