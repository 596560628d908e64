package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/tenantkit"
	"github.com/dmitrymomot/tenantkit/pkg/feature"
	"github.com/dmitrymomot/tenantkit/pkg/httpserver"
	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/rbac"
	mt "github.com/dmitrymomot/tenantkit/pkg/tenant"
	"github.com/dmitrymomot/tenantkit/svc/tenant"
)

// userHeader carries the caller's user id. Authentication belongs in front
// of this service.
const userHeader = "X-User-ID"

// permissionTenants guards the tenant management routes.
const permissionTenants = "Pages.Tenants"

type api struct {
	app *tenantkit.App
}

func newRouter(app *tenantkit.App) http.Handler {
	h := &api{app: app}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		middleware.RequestID,
		middleware.RealIP,
	)

	r.Get("/livez", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(app.Logger, app.Probes()))

	r.Route("/api", func(r chi.Router) {
		r.Use(app.Middleware(), withUser)

		r.Get("/session", h.handleSession)
		r.Get("/permissions/{name}", h.handleIsGranted)

		r.Route("/tenants", func(r chi.Router) {
			manage := h.requirePermission(permissionTenants)
			r.With(manage).Post("/", h.handleCreateTenant)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.handleGetTenant)
				r.With(manage).Delete("/", h.handleDeleteTenant)
				r.Get("/features", h.handleGetFeatures)
				r.With(manage).Put("/features", h.handleSetFeatures)
			})
		})
	})

	return r
}

func withUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw := r.Header.Get(userHeader); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, errors.New("invalid "+userHeader))
				return
			}
			r = r.WithContext(rbac.WithUserID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

func (h *api) requirePermission(permissions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := rbac.Authorize(r.Context(), h.app.Checker, rbac.ContextSession{}, permissions...); err != nil {
				h.fail(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type sessionResponse struct {
	TenantID *int64 `json:"tenant_id"`
	BranchID *int64 `json:"branch_id"`
	UserID   *int64 `json:"user_id"`
}

func (h *api) handleSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var resp sessionResponse
	resp.TenantID, _ = mt.TenantIDFromContext(ctx)
	resp.BranchID, _ = mt.BranchIDFromContext(ctx)
	if id, ok := rbac.UserIDFromContext(ctx); ok {
		resp.UserID = &id
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *api) handleIsGranted(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	granted, err := h.app.Checker.IsGranted(r.Context(), name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"permission": name, "granted": granted})
}

type createTenantRequest struct {
	TenancyName string `json:"tenancy_name"`
	Name        string `json:"name"`
	EditionID   *int64 `json:"edition_id"`
}

func (h *api) handleCreateTenant(w http.ResponseWriter, r *http.Request) {
	var req createTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	t, err := h.app.Tenants.Create(r.Context(), &tenant.Tenant{
		TenancyName: req.TenancyName,
		Name:        req.Name,
		EditionID:   req.EditionID,
		IsActive:    true,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *api) handleGetTenant(w http.ResponseWriter, r *http.Request) {
	id, ok := tenantIDParam(w, r)
	if !ok {
		return
	}
	t, err := h.app.Tenants.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *api) handleDeleteTenant(w http.ResponseWriter, r *http.Request) {
	id, ok := tenantIDParam(w, r)
	if !ok {
		return
	}
	if err := h.app.Tenants.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *api) handleGetFeatures(w http.ResponseWriter, r *http.Request) {
	id, ok := tenantIDParam(w, r)
	if !ok {
		return
	}
	values, err := h.app.Tenants.FeatureValues(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, values)
}

func (h *api) handleSetFeatures(w http.ResponseWriter, r *http.Request) {
	id, ok := tenantIDParam(w, r)
	if !ok {
		return
	}
	var values []feature.NameValue
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.app.Tenants.SetFeatureValues(r.Context(), id, values...); err != nil {
		h.fail(w, r, err)
		return
	}
	h.handleGetFeatures(w, r)
}

func (h *api) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, mt.ErrTenantNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, tenant.ErrInvalidTenancyName), errors.Is(err, rbac.ErrInvalidPermissionName):
		writeError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, tenant.ErrTenancyNameTaken):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, rbac.ErrNoUserInContext):
		writeError(w, http.StatusUnauthorized, err)
	case errors.Is(err, rbac.ErrInsufficientPermissions):
		writeError(w, http.StatusForbidden, err)
	default:
		h.app.Logger.ErrorContext(r.Context(), "request failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, errors.New(http.StatusText(http.StatusInternalServerError)))
	}
}

func tenantIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid tenant id"))
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
