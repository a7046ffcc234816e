package notify

import (
	"fmt"
	"strings"

	"pitchmate-backend/internal/shared/mail"
	"pitchmate-backend/internal/shared/metrics"
	"pitchmate-backend/internal/shared/telemetry"
)

// Service sends transactional notifications. Every send is best-effort: a
// relay failure is logged and counted but never surfaces to the operation the
// notification accompanies.
type Service struct {
	Sender    mail.Sender
	ClientURL string
}

// NewService constructs a notification service. Sender may be nil, in which
// case all notifications are silently skipped (dev mode without SMTP).
func NewService(sender mail.Sender, clientURL string) *Service {
	return &Service{Sender: sender, ClientURL: clientURL}
}

// Welcome greets a freshly registered user.
func (s *Service) Welcome(to, name string) {
	body := fmt.Sprintf(`<h2>Hi %s,</h2>
<p>Thanks for signing up!</p>
<p>You're all set to generate professional emails effortlessly and get smart resume analysis tailored to your target job roles.</p>
<p>Start now and take the next step in your career with confidence!</p>
<p>Best regards,<br>PitchMate AI</p>`, name)
	s.send(to, "Welcome to PitchMate AI", body)
}

// EmailGenerated delivers a freshly generated email to the account address.
func (s *Service) EmailGenerated(to, topic, tone, description, generated string) {
	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; color: #111827; line-height: 1.6;">
  <h2 style="color: #2563eb;">Your %s Email on "%s" is Ready!</h2>
  <p><strong>Description:</strong> %s</p>
  <div style="background-color: #f3f4f6; padding: 1rem; border-radius: 8px; margin-top: 1rem; white-space: pre-wrap; font-family: monospace; font-size: 14px; color: #1f2937;">%s</div>
  <p style="margin-top: 2rem;">
    Need another email? <a href="%s/email-generator" style="color: #2563eb; text-decoration: none;">Generate again</a>
  </p>
  <p>Thanks,<br/>The PitchMate AI Team</p>
</div>`, tone, topic, description, generated, s.ClientURL)
	s.send(to, fmt.Sprintf("Your Generated Email on %q", topic), body)
}

// ResumeAnalyzed summarizes a completed resume analysis.
func (s *Service) ResumeAnalyzed(to, jobTitle, score string, keySkills, missingSkills []string) {
	body := fmt.Sprintf(`<h2>Your Resume Analysis for "%s"</h2>
<p><strong>Score:</strong> %s</p>
<p><strong>Key Skills:</strong> %s</p>
<p><strong>Missing Skills:</strong> %s</p>`,
		jobTitle, score, strings.Join(keySkills, ", "), strings.Join(missingSkills, ", "))
	s.send(to, fmt.Sprintf("Your Resume Analysis for %q is Ready!", jobTitle), body)
}

func (s *Service) send(to, subject, body string) {
	if s == nil || s.Sender == nil || to == "" {
		return
	}
	if err := s.Sender.SendHTML(to, subject, body); err != nil {
		metrics.IncNotificationFailed()
		telemetry.Error("notify.send_failed", map[string]any{
			"subject": subject,
			"error":   err.Error(),
		})
		return
	}
	telemetry.Info("notify.sent", map[string]any{"subject": subject})
}
