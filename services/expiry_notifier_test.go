package services

import (
	"strings"
	"testing"
	"time"

	"certificate-management-api/models"
)

func TestNotifyExpiringSendsSummary(t *testing.T) {
	db := newTestDB(t)
	seedSetting(t, db, SettingNotificationEmail, "ops@example.com")
	batch := seedBatch(t, db, "BM-00001", "Fire & Safety", 3, []int{1, 2, 3})
	seedCertificate(t, db, batch, "FS-2026-0001", time.Now().AddDate(0, 0, 5), models.StatusExpiringSoon)
	seedCertificate(t, db, batch, "FS-2026-0002", time.Now().AddDate(0, 0, 12), models.StatusExpiringSoon)
	seedCertificate(t, db, batch, "FS-2026-0003", time.Now().AddDate(1, 0, 0), models.StatusActive)

	var gotTo []string
	var gotSubject, gotBody string
	notifier := NewExpiryNotifier(db)
	notifier.send = func(to []string, subject, html string) error {
		gotTo = to
		gotSubject = subject
		gotBody = html
		return nil
	}

	count, err := notifier.NotifyExpiring()
	if err != nil {
		t.Fatalf("NotifyExpiring returned error: %v", err)
	}
	if count != 2 {
		t.Fatalf("got %d certificates reported, want 2", count)
	}
	if len(gotTo) != 1 || gotTo[0] != "ops@example.com" {
		t.Fatalf("sent to %v, want the configured address", gotTo)
	}
	if !strings.Contains(gotSubject, "2") {
		t.Fatalf("subject %q does not carry the count", gotSubject)
	}
	if !strings.Contains(gotBody, "FS-2026-0001") || !strings.Contains(gotBody, "FS-2026-0002") {
		t.Fatalf("body missing expiring certificates: %q", gotBody)
	}
	if strings.Contains(gotBody, "FS-2026-0003") {
		t.Fatalf("body lists an active certificate: %q", gotBody)
	}
}

func TestNotifyExpiringSkipsWithoutAddress(t *testing.T) {
	db := newTestDB(t)
	batch := seedBatch(t, db, "BM-00001", "Fire & Safety", 3, []int{1, 2, 3})
	seedCertificate(t, db, batch, "FS-2026-0001", time.Now().AddDate(0, 0, 5), models.StatusExpiringSoon)

	notifier := NewExpiryNotifier(db)
	notifier.send = func([]string, string, string) error {
		t.Fatal("send called with no notification address configured")
		return nil
	}

	count, err := notifier.NotifyExpiring()
	if err != nil {
		t.Fatalf("NotifyExpiring returned error: %v", err)
	}
	if count != 0 {
		t.Fatalf("got %d, want 0", count)
	}
}

func TestNotifyExpiringSkipsWithNothingExpiring(t *testing.T) {
	db := newTestDB(t)
	seedSetting(t, db, SettingNotificationEmail, "ops@example.com")

	sent := false
	notifier := NewExpiryNotifier(db)
	notifier.send = func([]string, string, string) error {
		sent = true
		return nil
	}

	count, err := notifier.NotifyExpiring()
	if err != nil {
		t.Fatalf("NotifyExpiring returned error: %v", err)
	}
	if count != 0 || sent {
		t.Fatalf("got count=%d sent=%v, want no mail", count, sent)
	}
}
