package domain

import (
	"context"

	"github.com/google/uuid"
)

// AlertRole is the semantic role of an alert button.
type AlertRole string

const (
	AlertRoleDefault     AlertRole = "default"
	AlertRoleCancel      AlertRole = "cancel"
	AlertRoleDestructive AlertRole = "destructive"
)

// AlertAction is a button of an alert.
type AlertAction struct {
	Label     string
	Role      AlertRole
	Preferred bool
	Handler   func(ctx context.Context)
}

// Alert is shown on top of the top-most coordinator.
type Alert struct {
	ID      string
	Title   string
	Message string
	Actions []AlertAction
}

// NewAlert creates an alert with a fresh id.
func NewAlert(title, message string, actions ...AlertAction) Alert {
	return Alert{
		ID:      uuid.NewString(),
		Title:   title,
		Message: message,
		Actions: actions,
	}
}

// Cancel returns a cancel button.
func Cancel(label string) AlertAction {
	return AlertAction{Label: label, Role: AlertRoleCancel}
}
