package services

import (
	"testing"

	"spendbook/internal/models"
	"spendbook/internal/testutil"
)

func TestAuditLog(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAuditService(db)

	svc.Log(AuditDeleteCategory, "category", "0190a1b2-0000-7000-8000-000000000001", "127.0.0.1",
		map[string]any{"name": "Food"})
	svc.Log(AuditImportExpenses, "expense", "", "", nil)

	var logs []models.AuditLog
	testutil.AssertNoError(t, db.Order("action").Find(&logs).Error)

	if len(logs) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(logs))
	}
	if logs[0].Action != AuditDeleteCategory || logs[0].Changes != `{"name":"Food"}` {
		t.Errorf("unexpected entry %+v", logs[0])
	}
	if logs[1].Changes != "" {
		t.Errorf("expected empty changes, got %q", logs[1].Changes)
	}
}

func TestAuditLogUnmarshalableChanges(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAuditService(db)

	svc.Log(AuditUpdateExpense, "expense", "x", "", map[string]any{"bad": make(chan int)})

	var entry models.AuditLog
	testutil.AssertNoError(t, db.First(&entry).Error)
	if entry.Changes != "{}" {
		t.Errorf("expected fallback {}, got %q", entry.Changes)
	}
}
