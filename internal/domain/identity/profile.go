package identity

import (
	"context"

	"github.com/agendify/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SubscriptionStatus represents the state of a user's subscription
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
	SubscriptionStatusInactive SubscriptionStatus = "inactive"
)

// UserProfile represents a registered user of the product.
// Profiles are owned by the dashboard; this service only reads them,
// primarily to resolve inbound WhatsApp senders to users.
type UserProfile struct {
	shared.BaseEntity
	UserID             uuid.UUID
	FullName           string
	Phone              string
	IsAdmin            bool
	SubscriptionPlan   string
	SubscriptionStatus SubscriptionStatus
	WhatsAppConnected  bool
}

// ProfileRepository defines read access to user profiles
type ProfileRepository interface {
	// FindByPhone resolves a profile by the exact stored phone number.
	// Returns shared.ErrNotFound when no profile matches.
	FindByPhone(ctx context.Context, phone string) (*UserProfile, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*UserProfile, error)
}
