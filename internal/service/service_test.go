package service

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/AkarshanGhosh/Rail-Web-Server/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Division{},
		&models.Coach{},
		&models.Telemetry{},
		&models.ActivityLog{},
	)
	if err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

// sentMail is one message captured by the recorder.
type sentMail struct {
	To      string
	Subject string
	Body    string
}

// recorderMailer captures outgoing mail instead of dialing SMTP.
type recorderMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (m *recorderMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errSendFailed
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *recorderMailer) Sent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]sentMail, len(m.sent))
	copy(out, m.sent)
	return out
}

var errSendFailed = &mailError{}

type mailError struct{}

func (*mailError) Error() string { return "send failed" }
