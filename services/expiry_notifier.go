package services

import (
	"fmt"
	"strings"

	"certificate-management-api/config"
	"certificate-management-api/models"

	"gorm.io/gorm"
)

// ExpiryNotifier mails a summary of certificates inside the warning window to
// the configured notification address. Intended to run right after a status
// sweep.
type ExpiryNotifier struct {
	db       *gorm.DB
	settings *SettingsService

	// send is swappable in tests; defaults to the SMTP mailer.
	send func(to []string, subject, html string) error
}

func NewExpiryNotifier(db *gorm.DB) *ExpiryNotifier {
	return &ExpiryNotifier{
		db:       db,
		settings: NewSettingsService(db),
		send:     config.SendMail,
	}
}

// NotifyExpiring sends the summary mail and returns the number of
// certificates reported. With no notification address configured or nothing
// expiring it sends nothing.
func (n *ExpiryNotifier) NotifyExpiring() (int, error) {
	address, err := n.settings.GetString(n.db, SettingNotificationEmail, "")
	if err != nil {
		return 0, err
	}
	if address == "" {
		return 0, nil
	}

	var certs []models.Certificate
	err = n.db.Where("status = ?", models.StatusExpiringSoon).
		Order("due_date ASC").
		Find(&certs).Error
	if err != nil {
		return 0, fmt.Errorf("load expiring certificates: %w", err)
	}
	if len(certs) == 0 {
		return 0, nil
	}

	var body strings.Builder
	body.WriteString("<p>The following certificates expire soon:</p><ul>")
	for _, cert := range certs {
		body.WriteString(fmt.Sprintf("<li>%s - %s (due %s)</li>",
			cert.CertificateNumber, cert.Name, cert.DueDate.Format(dateLayout)))
	}
	body.WriteString("</ul>")

	subject := fmt.Sprintf("%d certificate(s) expiring soon", len(certs))
	if err := n.send([]string{address}, subject, body.String()); err != nil {
		return 0, fmt.Errorf("send expiry notification: %w", err)
	}
	return len(certs), nil
}
