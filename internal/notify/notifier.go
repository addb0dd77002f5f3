// Package notify is the thin hook to the external notification component.
// Deliveries are best-effort: a failed push is logged and never propagates
// into the workflow that triggered it.
package notify

import (
	"context"

	"github.com/appetiteclub/apt"
)

type ServiceNotifier struct {
	client *apt.ServiceClient
	logger apt.Logger
}

// NewServiceNotifier builds a notifier against the notification service base
// URL. An empty URL yields a disabled notifier that drops everything.
func NewServiceNotifier(baseURL string, logger apt.Logger) *ServiceNotifier {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	n := &ServiceNotifier{logger: logger}
	if baseURL != "" {
		n.client = apt.NewServiceClient(baseURL)
	}
	return n
}

type notificationRequest struct {
	Type       string `json:"type"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	TargetRole string `json:"target_role"`
}

func (n *ServiceNotifier) Notify(ctx context.Context, title, message, targetRole string) {
	if n.client == nil {
		return
	}

	req := notificationRequest{
		Type:       "staff",
		Title:      title,
		Message:    message,
		TargetRole: targetRole,
	}

	if _, err := n.client.Create(ctx, "notifications", req); err != nil {
		n.logger.Errorf("cannot deliver notification %q to %s: %v", title, targetRole, err)
	}
}
