package services

import (
	"context"
	"testing"
	"time"

	"finance4all/internal/models"
	"finance4all/internal/pagination"
	"finance4all/internal/testutil"
)

func TestComputeAndRecordSnapshots(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := NewSnapshotService(db)

	alice := testutil.CreateTestUser(t, db)
	bob := testutil.CreateTestUser(t, db)
	testutil.CreateTestUser(t, db) // no accounts

	testutil.CreateTestAccount(t, db, alice.ID, models.AccountTypeChecking, "1000")
	testutil.CreateTestAccount(t, db, alice.ID, models.AccountTypeLoan, "-400")
	bobAccount := testutil.CreateTestAccount(t, db, bob.ID, models.AccountTypeInvestment, "2500")

	recordedAt := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	count, err := svc.ComputeAndRecordSnapshots(ctx, recordedAt)
	testutil.AssertNoError(t, err)
	if count != 2 {
		t.Errorf("expected 2 snapshots, got %d", count)
	}

	var snap models.NetWorthSnapshot
	if err := db.Where("user_id = ?", alice.ID).First(&snap).Error; err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	testutil.AssertDecimal(t, "assets", snap.TotalAssets, "1000")
	testutil.AssertDecimal(t, "debts", snap.TotalDebts, "400")
	testutil.AssertDecimal(t, "net worth", snap.NetWorth, "600")

	// re-running for the same instant overwrites rather than duplicating
	db.Model(bobAccount).Update("balance", "3000")
	_, err = svc.ComputeAndRecordSnapshots(ctx, recordedAt)
	testutil.AssertNoError(t, err)

	var total int64
	db.Model(&models.NetWorthSnapshot{}).Count(&total)
	if total != 2 {
		t.Errorf("expected 2 snapshot rows after re-run, got %d", total)
	}

	var bobSnap models.NetWorthSnapshot
	db.Where("user_id = ?", bob.ID).First(&bobSnap)
	testutil.AssertDecimal(t, "bob investments", bobSnap.TotalInvestments, "3000")
}

func TestGetSnapshots(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := NewSnapshotService(db)
	user := testutil.CreateTestUser(t, db)
	testutil.CreateTestAccount(t, db, user.ID, models.AccountTypeChecking, "10")

	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := svc.ComputeAndRecordSnapshots(ctx, base.AddDate(0, i, 0))
		testutil.AssertNoError(t, err)
	}

	page, err := svc.GetSnapshots(ctx, user.ID, base, base.AddDate(0, 1, 0), pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if page.TotalItems != 2 {
		t.Errorf("expected 2 snapshots in range, got %d", page.TotalItems)
	}
	if len(page.Data) == 2 && !page.Data[0].RecordedAt.After(page.Data[1].RecordedAt) {
		t.Error("expected newest snapshot first")
	}
}
