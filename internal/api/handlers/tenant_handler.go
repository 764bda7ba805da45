package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"

	"golang.org/x/crypto/bcrypt"
	"parley/internal/pkg/errors"
	"parley/internal/pkg/validator"
	"parley/internal/platform/models"
	"parley/internal/platform/repositories"
)

// TenantHandler provisions tenants and their first administrator.
type TenantHandler struct {
	tenantRepo    *repositories.TenantRepository
	userRepo      *repositories.UserRepository
	storeBasePath string
}

func NewTenantHandler(tenantRepo *repositories.TenantRepository, userRepo *repositories.UserRepository, storeBasePath string) *TenantHandler {
	return &TenantHandler{tenantRepo: tenantRepo, userRepo: userRepo, storeBasePath: storeBasePath}
}

func (h *TenantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Slug          string `json:"slug"`
		Name          string `json:"name"`
		Domain        string `json:"domain"`
		AdminEmail    string `json:"admin_email"`
		AdminPassword string `json:"admin_password"`
		AdminName     string `json:"admin_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.Slug == "" || req.Name == "" || req.AdminEmail == "" || req.AdminPassword == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "slug, name, admin_email and admin_password are required", nil)
		return
	}
	if err := validator.ValidateEmail(req.AdminEmail); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}

	existing, err := h.tenantRepo.GetBySlug(req.Slug)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to check slug", nil)
		return
	}
	if existing != nil {
		errors.WriteError(w, http.StatusConflict, errors.ErrCodeConflict, "Slug already in use", nil)
		return
	}

	tenant := &models.Tenant{
		Slug:      req.Slug,
		Name:      req.Name,
		Domain:    req.Domain,
		StorePath: filepath.Join(h.storeBasePath, req.Slug+".db"),
	}
	if err := h.tenantRepo.Create(tenant); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to create tenant", nil)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to hash password", nil)
		return
	}

	admin := &models.User{
		TenantID:     tenant.ID,
		Email:        req.AdminEmail,
		PasswordHash: string(hashedPassword),
		FullName:     req.AdminName,
		Role:         "admin",
	}
	if err := h.userRepo.Create(admin); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to create admin user", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(tenant)
}
