package services

import (
	"testing"
	"time"

	"certificate-management-api/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with the full schema. One
// connection only: every :memory: connection is its own database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Setting{},
		&models.Batch{},
		&models.Certificate{},
		&models.CertificateAttachment{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

func seedSetting(t *testing.T, db *gorm.DB, key, value string) {
	t.Helper()
	setting := models.Setting{SettingKey: key, SettingValue: value}
	if err := db.Create(&setting).Error; err != nil {
		t.Fatalf("seed setting %s: %v", key, err)
	}
}

func seedInstructor(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return seedUser(t, db, "Nadia Instructor", models.RoleInstructor, true)
}

func seedUser(t *testing.T, db *gorm.DB, name, role string, active bool) *models.User {
	t.Helper()
	user := models.User{
		Name:     name,
		Email:    name + "@example.test",
		Password: "not-a-real-hash",
		Role:     role,
		IsActive: active,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	return &user
}

func seedBatch(t *testing.T, db *gorm.DB, number, certType string, participants int, block []int) *models.Batch {
	t.Helper()
	batch := models.Batch{
		BatchNumber:          number,
		CompanyName:          "Test Co",
		ReferredBy:           "Referrer",
		NumberOfParticipants: participants,
		BatchType:            "Onsite",
		CertificateType:      certType,
		StartDate:            time.Now().AddDate(0, 0, -7),
		EndDate:              time.Now(),
		ReservedCertNumbers:  models.IntList(block),
	}
	if err := db.Create(&batch).Error; err != nil {
		t.Fatalf("seed batch %s: %v", number, err)
	}
	return &batch
}

func seedCertificate(t *testing.T, db *gorm.DB, batch *models.Batch, number string, dueDate time.Time, status string) *models.Certificate {
	t.Helper()
	cert := models.Certificate{
		CertificateNumber: number,
		BatchID:           &batch.ID,
		Name:              "Holder Name",
		Nationality:       "UAE",
		EidLicense:        "784-1234-5678901-2",
		Employer:          "Test Co",
		TrainingName:      "Fire Safety Basics",
		TrainingDate:      time.Now().AddDate(0, 0, -7),
		IssueDate:         time.Now().AddDate(0, 0, -1),
		DueDate:           dueDate,
		Status:            status,
	}
	if err := db.Create(&cert).Error; err != nil {
		t.Fatalf("seed certificate %s: %v", number, err)
	}
	return &cert
}

func dateString(t time.Time) string {
	return t.Format(dateLayout)
}
