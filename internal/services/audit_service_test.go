package services

import (
	"context"
	"encoding/json"
	"testing"

	"finance4all/internal/models"
	"finance4all/internal/testutil"
)

func TestAuditLog(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewAuditService(db)
	user := testutil.CreateTestUser(t, db)

	ctx := WithClientIP(context.Background(), "203.0.113.7")
	svc.Log(ctx, user.ID, "CREATE_ACCOUNT", "account", "acc-1", map[string]interface{}{"name": "Checking"})

	var entry models.AuditLog
	if err := db.Where("user_id = ?", user.ID).First(&entry).Error; err != nil {
		t.Fatalf("load audit entry: %v", err)
	}
	if entry.IPAddress != "203.0.113.7" {
		t.Errorf("expected client IP to be recorded, got %q", entry.IPAddress)
	}

	var changes map[string]interface{}
	if err := json.Unmarshal([]byte(entry.Changes), &changes); err != nil {
		t.Fatalf("changes should be JSON: %v", err)
	}
	if changes["name"] != "Checking" {
		t.Errorf("unexpected changes: %v", changes)
	}
}

func TestAuditLogSurvivesCancelledContext(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewAuditService(db)
	user := testutil.CreateTestUser(t, db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.Log(ctx, user.ID, "DELETE_BUDGET", "budget", "b-1", nil)

	var count int64
	db.Model(&models.AuditLog{}).Where("action = ?", "DELETE_BUDGET").Count(&count)
	if count != 1 {
		t.Errorf("expected audit entry despite cancelled context, got %d", count)
	}
}

func TestServicesWriteAuditEntries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	audit := NewAuditService(db)
	accounts := NewAccountService(db, audit)
	user := testutil.CreateTestUser(t, db)

	_, err := accounts.CreateAccount(context.Background(), user.ID, CreateAccountInput{Name: "Wallet", Type: "CHECKING"})
	testutil.AssertNoError(t, err)

	var count int64
	db.Model(&models.AuditLog{}).Where("user_id = ? AND action = ?", user.ID, "CREATE_ACCOUNT").Count(&count)
	if count != 1 {
		t.Errorf("expected 1 CREATE_ACCOUNT entry, got %d", count)
	}
}
