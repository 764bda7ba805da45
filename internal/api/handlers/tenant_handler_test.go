package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"parley/internal/platform/repositories"
)

func TestTenantHandler_CreateRejectsBadAdminEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	handler := NewTenantHandler(
		repositories.NewTenantRepository(db),
		repositories.NewUserRepository(db),
		"/tmp/stores",
	)

	body := `{"slug":"bugle","name":"Daily Bugle","admin_email":"not-an-email","admin_password":"hunter22"}`
	req := httptest.NewRequest("POST", "/api/v1/tenants", strings.NewReader(body))
	rr := httptest.NewRecorder()

	handler.Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed admin email, got %d", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Expected no database access, got: %s", err)
	}
}
