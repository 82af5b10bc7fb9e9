package services

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestNextStartsFromConfiguredStartNumber(t *testing.T) {
	db := newTestDB(t)
	seedSetting(t, db, SettingBatchNumberFormat, "BM-{#####}")
	seedSetting(t, db, SettingBatchStartNumber, "5")

	number, err := NewSequenceService(db).Next(nil, EntityBatch)
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if number != "BM-00006" {
		t.Fatalf("got %q, want BM-00006", number)
	}
}

func TestNextContinuesFromLatestRecord(t *testing.T) {
	db := newTestDB(t)
	seedSetting(t, db, SettingBatchNumberFormat, "BM-{#####}")
	seedSetting(t, db, SettingBatchStartNumber, "5")
	seedBatch(t, db, "BM-00006", "Fire & Safety", 1, []int{1})

	number, err := NewSequenceService(db).Next(nil, EntityBatch)
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if number != "BM-00007" {
		t.Fatalf("got %q, want BM-00007", number)
	}
}

func TestNextAppliesDefaultsWhenSettingsUnset(t *testing.T) {
	db := newTestDB(t)

	number, err := NewSequenceService(db).Next(nil, EntityBatch)
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if number != "BM-00002" {
		t.Fatalf("got %q, want BM-00002", number)
	}
}

func TestNextTrustsInsertionOrderNotMaximum(t *testing.T) {
	db := newTestDB(t)
	seedBatch(t, db, "BM-00010", "Fire & Safety", 1, []int{1})
	seedBatch(t, db, "BM-00003", "Fire & Safety", 1, []int{2})

	// The most recently inserted row wins, even though a higher number was
	// issued earlier. The unique index is the backstop for the collision
	// this can produce.
	number, err := NewSequenceService(db).Next(nil, EntityBatch)
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if number != "BM-00004" {
		t.Fatalf("got %q, want BM-00004", number)
	}
}

func TestNextFallbackPolicyOnPatternMismatch(t *testing.T) {
	db := newTestDB(t)
	seedBatch(t, db, "LEGACY-X", "Fire & Safety", 1, []int{1})

	// Default policy: fall back to the settings-derived candidate.
	number, err := NewSequenceService(db).Next(nil, EntityBatch)
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if number != "BM-00002" {
		t.Fatalf("fallback policy: got %q, want BM-00002", number)
	}
}

func TestNextTreatsOverflowingDigitRunAsMismatch(t *testing.T) {
	db := newTestDB(t)
	seedBatch(t, db, "BM-99999999999999999999999999", "Fire & Safety", 1, []int{1})

	// The trailing digits exist but do not fit an int, so the same policy
	// applies as for a number with no digits at all.
	number, err := NewSequenceService(db).Next(nil, EntityBatch)
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if number != "BM-00002" {
		t.Fatalf("fallback policy: got %q, want BM-00002", number)
	}

	seedSetting(t, db, SettingNumberFallbackPolicy, PolicyStrict)
	if _, err := NewSequenceService(db).Next(nil, EntityBatch); !errors.Is(err, ErrNumberPatternMismatch) {
		t.Fatalf("strict policy: got %v, want ErrNumberPatternMismatch", err)
	}
}

func TestNextStrictPolicyOnPatternMismatch(t *testing.T) {
	db := newTestDB(t)
	seedSetting(t, db, SettingNumberFallbackPolicy, PolicyStrict)
	seedBatch(t, db, "LEGACY-X", "Fire & Safety", 1, []int{1})

	_, err := NewSequenceService(db).Next(nil, EntityBatch)
	if !errors.Is(err, ErrNumberPatternMismatch) {
		t.Fatalf("got %v, want ErrNumberPatternMismatch", err)
	}
}

func TestNextCertificateEntityUsesCertificateSettings(t *testing.T) {
	db := newTestDB(t)
	seedSetting(t, db, SettingCertificateNumberFormat, "FS-{YYYY}-{####}")
	seedSetting(t, db, SettingCertificateStartNumber, "10")

	number, err := NewSequenceService(db).Next(nil, EntityCertificate)
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	want := fmt.Sprintf("FS-%04d-0011", time.Now().Year())
	if number != want {
		t.Fatalf("got %q, want %q", number, want)
	}
}

func TestNextPicksUpSettingChangeImmediately(t *testing.T) {
	db := newTestDB(t)
	svc := NewSequenceService(db)

	first, err := svc.Next(nil, EntityBatch)
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if first != "BM-00002" {
		t.Fatalf("got %q, want BM-00002", first)
	}

	// No caching: the new format applies to the very next allocation.
	if err := NewSettingsService(db).Set(SettingBatchNumberFormat, "BATCH/{###}"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	second, err := svc.Next(nil, EntityBatch)
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if second != "BATCH/002" {
		t.Fatalf("got %q, want BATCH/002", second)
	}
}
