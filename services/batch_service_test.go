package services

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"certificate-management-api/models"
)

func batchCreateRequest(instructorID int) *models.BatchCreateRequest {
	return &models.BatchCreateRequest{
		CompanyName:          "Acme Industrial",
		ReferredBy:           "Walk-in",
		NumberOfParticipants: 3,
		BatchType:            "Onsite",
		CertificateType:      "Fire & Safety",
		StartDate:            dateString(time.Now().AddDate(0, 0, -7)),
		EndDate:              dateString(time.Now()),
		InstructorID:         instructorID,
	}
}

func TestCreateBatchGeneratesNumberAndReservesBlock(t *testing.T) {
	db := newTestDB(t)
	instructor := seedInstructor(t, db)

	batch, err := NewBatchService(db).Create(batchCreateRequest(instructor.ID))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if batch.BatchNumber != "BM-00002" {
		t.Fatalf("got batch number %q, want BM-00002", batch.BatchNumber)
	}
	if !reflect.DeepEqual([]int(batch.ReservedCertNumbers), []int{1, 2, 3}) {
		t.Fatalf("got block %v, want [1 2 3]", batch.ReservedCertNumbers)
	}
	if batch.Instructor == nil || batch.Instructor.ID != instructor.ID {
		t.Fatalf("instructor not loaded on created batch")
	}
}

func TestCreateBatchSequentialNumbersAreDistinct(t *testing.T) {
	db := newTestDB(t)
	instructor := seedInstructor(t, db)
	svc := NewBatchService(db)

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		batch, err := svc.Create(batchCreateRequest(instructor.ID))
		if err != nil {
			t.Fatalf("create %d returned error: %v", i, err)
		}
		if seen[batch.BatchNumber] {
			t.Fatalf("duplicate batch number %q", batch.BatchNumber)
		}
		seen[batch.BatchNumber] = true
	}
}

func TestCreateBatchCrossBatchBlocksDoNotOverlap(t *testing.T) {
	db := newTestDB(t)
	instructor := seedInstructor(t, db)
	svc := NewBatchService(db)

	first, err := svc.Create(batchCreateRequest(instructor.ID))
	if err != nil {
		t.Fatalf("first create returned error: %v", err)
	}
	second, err := svc.Create(batchCreateRequest(instructor.ID))
	if err != nil {
		t.Fatalf("second create returned error: %v", err)
	}

	firstMax, _ := first.ReservedCertNumbers.Max()
	if second.ReservedCertNumbers[0] <= firstMax {
		t.Fatalf("second block %v overlaps first %v", second.ReservedCertNumbers, first.ReservedCertNumbers)
	}
}

func TestCreateBatchRejectsInvalidInstructor(t *testing.T) {
	db := newTestDB(t)
	inactive := seedUser(t, db, "Inactive Instructor", models.RoleInstructor, false)
	staff := seedUser(t, db, "Some Staff", models.RoleStaff, true)
	svc := NewBatchService(db)

	cases := []struct {
		name string
		id   int
	}{
		{"nonexistent user", 9999},
		{"inactive instructor", inactive.ID},
		{"wrong role", staff.ID},
	}
	for _, tc := range cases {
		if _, err := svc.Create(batchCreateRequest(tc.id)); !errors.Is(err, ErrInstructorInvalid) {
			t.Errorf("%s: got %v, want ErrInstructorInvalid", tc.name, err)
		}
	}

	// Nothing was inserted by the failed attempts.
	var count int64
	if err := db.Model(&models.Batch{}).Count(&count).Error; err != nil {
		t.Fatalf("count batches: %v", err)
	}
	if count != 0 {
		t.Fatalf("got %d batches after failed creates, want 0", count)
	}
}

func TestCreateBatchCallerSuppliedNumberMustBeUnique(t *testing.T) {
	db := newTestDB(t)
	instructor := seedInstructor(t, db)
	svc := NewBatchService(db)

	req := batchCreateRequest(instructor.ID)
	req.BatchNumber = "CUSTOM-01"
	if _, err := svc.Create(req); err != nil {
		t.Fatalf("first create returned error: %v", err)
	}

	dup := batchCreateRequest(instructor.ID)
	dup.BatchNumber = "CUSTOM-01"
	if _, err := svc.Create(dup); !errors.Is(err, ErrDuplicateNumber) {
		t.Fatalf("got %v, want ErrDuplicateNumber", err)
	}
}

func TestUpdateBatchRegeneratesBlockOnParticipantChange(t *testing.T) {
	db := newTestDB(t)
	instructor := seedInstructor(t, db)
	svc := NewBatchService(db)

	batch, err := svc.Create(batchCreateRequest(instructor.ID))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	five := 5
	updated, err := svc.Update(batch.ID, &models.BatchUpdateRequest{NumberOfParticipants: &five})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	// No other batch of the type exists, so the regenerated block restarts
	// from the beginning rather than stacking on the old one.
	if !reflect.DeepEqual([]int(updated.ReservedCertNumbers), []int{1, 2, 3, 4, 5}) {
		t.Fatalf("got block %v, want [1 2 3 4 5]", updated.ReservedCertNumbers)
	}
	if updated.NumberOfParticipants != 5 {
		t.Fatalf("got %d participants, want 5", updated.NumberOfParticipants)
	}
}

func TestUpdateBatchRegenerationStartsAfterOtherBatches(t *testing.T) {
	db := newTestDB(t)
	instructor := seedInstructor(t, db)
	svc := NewBatchService(db)

	first, err := svc.Create(batchCreateRequest(instructor.ID)) // [1 2 3]
	if err != nil {
		t.Fatalf("first create returned error: %v", err)
	}
	if _, err := svc.Create(batchCreateRequest(instructor.ID)); err != nil { // [4 5 6]
		t.Fatalf("second create returned error: %v", err)
	}

	five := 5
	updated, err := svc.Update(first.ID, &models.BatchUpdateRequest{NumberOfParticipants: &five})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if !reflect.DeepEqual([]int(updated.ReservedCertNumbers), []int{7, 8, 9, 10, 11}) {
		t.Fatalf("got block %v, want [7 8 9 10 11]", updated.ReservedCertNumbers)
	}
}

func TestUpdateBatchKeepsBlockWithoutTriggerChange(t *testing.T) {
	db := newTestDB(t)
	instructor := seedInstructor(t, db)
	svc := NewBatchService(db)

	batch, err := svc.Create(batchCreateRequest(instructor.ID))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	original := append([]int(nil), batch.ReservedCertNumbers...)

	name := "Renamed Co"
	sameCount := batch.NumberOfParticipants
	updated, err := svc.Update(batch.ID, &models.BatchUpdateRequest{
		CompanyName:          &name,
		NumberOfParticipants: &sameCount, // present but unchanged
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if !reflect.DeepEqual([]int(updated.ReservedCertNumbers), original) {
		t.Fatalf("block changed without a trigger: got %v, want %v", updated.ReservedCertNumbers, original)
	}
	if updated.CompanyName != "Renamed Co" {
		t.Fatalf("company name not updated: %q", updated.CompanyName)
	}
}

func TestUpdateBatchPartialSemanticsLeavesOtherFields(t *testing.T) {
	db := newTestDB(t)
	instructor := seedInstructor(t, db)
	svc := NewBatchService(db)

	batch, err := svc.Create(batchCreateRequest(instructor.ID))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	desc := "Evening sessions"
	updated, err := svc.Update(batch.ID, &models.BatchUpdateRequest{Description: &desc})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if updated.Description != desc {
		t.Fatalf("description not updated: %q", updated.Description)
	}
	if updated.CompanyName != batch.CompanyName ||
		updated.BatchNumber != batch.BatchNumber ||
		updated.NumberOfParticipants != batch.NumberOfParticipants {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestUpdateBatchRevalidatesSuppliedInstructor(t *testing.T) {
	db := newTestDB(t)
	instructor := seedInstructor(t, db)
	inactive := seedUser(t, db, "Inactive Instructor", models.RoleInstructor, false)
	svc := NewBatchService(db)

	batch, err := svc.Create(batchCreateRequest(instructor.ID))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := svc.Update(batch.ID, &models.BatchUpdateRequest{InstructorID: &inactive.ID}); !errors.Is(err, ErrInstructorInvalid) {
		t.Fatalf("got %v, want ErrInstructorInvalid", err)
	}
}

func TestUpdateBatchNotFound(t *testing.T) {
	db := newTestDB(t)

	desc := "whatever"
	if _, err := NewBatchService(db).Update(42, &models.BatchUpdateRequest{Description: &desc}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestDeleteBatchGuardedByCertificates(t *testing.T) {
	db := newTestDB(t)
	instructor := seedInstructor(t, db)
	svc := NewBatchService(db)

	batch, err := svc.Create(batchCreateRequest(instructor.ID))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	seedCertificate(t, db, batch, "FS-2024-0001", time.Now().AddDate(1, 0, 0), models.StatusActive)

	if err := svc.Delete(batch.ID); !errors.Is(err, ErrBatchHasCertificates) {
		t.Fatalf("got %v, want ErrBatchHasCertificates", err)
	}

	if err := db.Where("batch_id = ?", batch.ID).Delete(&models.Certificate{}).Error; err != nil {
		t.Fatalf("clear certificates: %v", err)
	}
	if err := svc.Delete(batch.ID); err != nil {
		t.Fatalf("delete after clearing certificates returned error: %v", err)
	}
	if err := svc.Delete(batch.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: got %v, want ErrNotFound", err)
	}
}
