package notify

import (
	"fmt"
	"log"

	"github.com/AkarshanGhosh/Rail-Web-Server/internal/alert"
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/repository"
)

// Notifier fans a new chain-pull alert out to every registered user. The
// whole dispatch is best-effort: a failed recipient is logged and skipped,
// and no failure ever reaches the telemetry write path.
type Notifier struct {
	mailer   Mailer
	userRepo *repository.UserRepository
}

func NewNotifier(mailer Mailer, userRepo *repository.UserRepository) *Notifier {
	return &Notifier{
		mailer:   mailer,
		userRepo: userRepo,
	}
}

// NotifyChainPulled sends one message per registered user for a new alert.
func (n *Notifier) NotifyChainPulled(a alert.Alert) {
	emails, err := n.userRepo.ListEmails()
	if err != nil {
		log.Printf("chain-pull notification: loading recipient list failed: %v", err)
		return
	}
	if len(emails) == 0 {
		return
	}

	subject := "Chain Pulled Notification"
	body := fmt.Sprintf(
		"Alert! The chain status of train %q (Coach: %s %s) has been updated to \"Pulled\". "+
			"Please take necessary actions immediately.",
		a.TrainNumber, a.CoachUID, a.CoachName)

	for _, email := range emails {
		if err := n.mailer.Send(email, subject, body); err != nil {
			log.Printf("chain-pull notification: sending to %s failed: %v", email, err)
			continue
		}
	}
}

// SendWelcome greets a freshly registered user. Best-effort as well.
func (n *Notifier) SendWelcome(email, username string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nWelcome to Rail Watch! You have successfully registered with the email: %s.\n\n"+
			"Best Regards,\nTIH Teams", username, email)
	return n.mailer.Send(email, "Welcome to Rail Watch!", body)
}

// Send passes an arbitrary message through to the mailer. Used by the
// admin broadcast endpoint.
func (n *Notifier) Send(to, subject, body string) error {
	return n.mailer.Send(to, subject, body)
}

// SendOTP mails a one-time password with its validity window.
func (n *Notifier) SendOTP(email, subject, otp string, validMinutes int) error {
	body := fmt.Sprintf("Your OTP is %s. It is valid for %d minutes.", otp, validMinutes)
	return n.mailer.Send(email, subject, body)
}
