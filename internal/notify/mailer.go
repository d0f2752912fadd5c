// ABOUTME: Decision email mailer — the worker handler for the role_decision_email queue.
// ABOUTME: Loads the decided request and requester profile, renders, and sends via SMTP.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/access"
	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/rbac"
	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/store"
)

// Mailer sends role-request decision emails. It implements the worker.Handler
// signature via HandleDecisionEmail.
type Mailer struct {
	store  *store.Store
	smtp   SmtpConfig
	appURL string
}

// NewMailer creates a Mailer. appURL, when set, is linked in the email footer.
func NewMailer(s *store.Store, smtp SmtpConfig, appURL string) *Mailer {
	return &Mailer{store: s, smtp: smtp, appURL: appURL}
}

// HandleDecisionEmail processes one role_decision_email job. Conditions that a
// retry cannot fix — request missing, still pending, no profile or address —
// are logged and dropped rather than failed; only SMTP errors propagate so the
// pool's backoff applies.
func (m *Mailer) HandleDecisionEmail(ctx context.Context, payload json.RawMessage) error {
	var p access.DecisionEmailPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decision email payload: %w", err)
	}

	req, err := m.store.GetRoleRequest(ctx, p.RequestID)
	if err != nil {
		return fmt.Errorf("decision email: load request: %w", err)
	}
	if req == nil || req.Status == store.RequestPending {
		slog.WarnContext(ctx, "decision email for missing or undecided request, dropping",
			"request_id", p.RequestID)
		return nil
	}

	profile, err := m.store.GetProfile(ctx, req.UserID)
	if err != nil {
		return fmt.Errorf("decision email: load profile: %w", err)
	}
	if profile == nil || profile.Email == "" {
		slog.WarnContext(ctx, "no email address for requester, dropping decision email",
			"request_id", req.ID, "user_id", req.UserID)
		return nil
	}

	data := DecisionTemplateData{
		DisplayName: profile.DisplayName,
		RoleName:    roleDisplayName(req.RequestedRole),
		Status:      req.Status,
		Approved:    req.Status == store.RequestApproved,
		AppURL:      m.appURL,
	}
	if req.AdminNotes != nil {
		data.AdminNotes = *req.AdminNotes
	}

	subject, htmlBody, textBody, err := RenderDecision(data)
	if err != nil {
		return fmt.Errorf("decision email: %w", err)
	}
	if err := EmailSend(ctx, m.smtp, profile.Email, subject, htmlBody, textBody); err != nil {
		return err
	}

	slog.InfoContext(ctx, "decision email sent",
		"request_id", req.ID, "user_id", req.UserID, "status", req.Status)
	return nil
}

// roleDisplayName maps a stored role identifier to its display name, falling
// back to the raw identifier for roles removed from the hierarchy since the
// request was filed.
func roleDisplayName(stored string) string {
	if role, ok := rbac.ParseRole(stored); ok {
		return rbac.DisplayName(role)
	}
	return stored
}
