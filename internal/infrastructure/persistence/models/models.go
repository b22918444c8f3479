// Package models contains GORM persistence models. Models mirror the
// database schema and convert to/from domain entities; domain code never
// sees gorm tags or nullable column quirks.
package models

import (
	"time"

	"github.com/agendify/backend/internal/domain/finance"
	"github.com/agendify/backend/internal/domain/identity"
	"github.com/agendify/backend/internal/domain/insight"
	"github.com/agendify/backend/internal/domain/messaging"
	"github.com/agendify/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProfileModel maps the profiles table
type ProfileModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	FullName           *string
	Phone              *string `gorm:"index"`
	IsAdmin            bool    `gorm:"not null"`
	SubscriptionPlan   *string
	SubscriptionStatus *string
	WhatsAppConnected  bool      `gorm:"column:whatsapp_connected;not null"`
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

// TableName returns the table name for ProfileModel
func (ProfileModel) TableName() string { return "profiles" }

// ToDomain converts the model to a domain UserProfile
func (m *ProfileModel) ToDomain() *identity.UserProfile {
	p := &identity.UserProfile{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		UserID:            m.UserID,
		IsAdmin:           m.IsAdmin,
		WhatsAppConnected: m.WhatsAppConnected,
	}
	if m.FullName != nil {
		p.FullName = *m.FullName
	}
	if m.Phone != nil {
		p.Phone = *m.Phone
	}
	if m.SubscriptionPlan != nil {
		p.SubscriptionPlan = *m.SubscriptionPlan
	}
	if m.SubscriptionStatus != nil {
		p.SubscriptionStatus = identity.SubscriptionStatus(*m.SubscriptionStatus)
	}
	return p
}

// CategoryModel maps the categories table
type CategoryModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Name      string    `gorm:"not null"`
	Color     string    `gorm:"not null"`
	Icon      *string
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for CategoryModel
func (CategoryModel) TableName() string { return "categories" }

// ToDomain converts the model to a domain Category
func (m *CategoryModel) ToDomain() *finance.Category {
	c := &finance.Category{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.CreatedAt,
		},
		Name:  m.Name,
		Color: m.Color,
	}
	if m.Icon != nil {
		c.Icon = *m.Icon
	}
	return c
}

// ExpenseModel maps the expenses table
type ExpenseModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description     string          `gorm:"not null"`
	Amount          decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CategoryID      *uuid.UUID      `gorm:"type:uuid;index"`
	TransactionDate time.Time       `gorm:"type:date;not null;index"`
	PaymentMethod   *string
	AICategorized   bool `gorm:"column:ai_categorized;not null"`
	FileURL         *string
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for ExpenseModel
func (ExpenseModel) TableName() string { return "expenses" }

// ToDomain converts the model to a domain Expense
func (m *ExpenseModel) ToDomain() *finance.Expense {
	e := &finance.Expense{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		UserID:          m.UserID,
		Description:     m.Description,
		Amount:          m.Amount,
		CategoryID:      m.CategoryID,
		TransactionDate: m.TransactionDate,
		AICategorized:   m.AICategorized,
	}
	if m.PaymentMethod != nil {
		pm := finance.PaymentMethod(*m.PaymentMethod)
		e.PaymentMethod = &pm
	}
	if m.FileURL != nil {
		e.FileURL = *m.FileURL
	}
	return e
}

// FromDomainExpense populates the model from a domain Expense
func (m *ExpenseModel) FromDomainExpense(e *finance.Expense) {
	m.ID = e.ID
	m.UserID = e.UserID
	m.Description = e.Description
	m.Amount = e.Amount
	m.CategoryID = e.CategoryID
	m.TransactionDate = e.TransactionDate
	m.AICategorized = e.AICategorized
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
	if e.PaymentMethod != nil {
		pm := e.PaymentMethod.String()
		m.PaymentMethod = &pm
	}
	if e.FileURL != "" {
		m.FileURL = &e.FileURL
	}
}

// SuggestionModel maps the ai_suggestions table
type SuggestionModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Type        string    `gorm:"not null"`
	Title       string    `gorm:"not null"`
	Description string    `gorm:"not null"`
	Metadata    []byte    `gorm:"type:jsonb"`
	Priority    *string
	Status      *string
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for SuggestionModel
func (SuggestionModel) TableName() string { return "ai_suggestions" }

// ToDomain converts the model to a domain Suggestion
func (m *SuggestionModel) ToDomain() (*insight.Suggestion, error) {
	typ := insight.SuggestionType(m.Type)
	meta, err := insight.UnmarshalMetadata(typ, m.Metadata)
	if err != nil {
		return nil, err
	}
	s := &insight.Suggestion{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.CreatedAt,
		},
		UserID:      m.UserID,
		Type:        typ,
		Title:       m.Title,
		Description: m.Description,
		Metadata:    meta,
	}
	if m.Priority != nil {
		s.Priority = insight.Priority(*m.Priority)
	}
	if m.Status != nil {
		s.Status = insight.Status(*m.Status)
	}
	return s, nil
}

// FromDomainSuggestion populates the model from a domain Suggestion
func (m *SuggestionModel) FromDomainSuggestion(s *insight.Suggestion) error {
	raw, err := insight.MarshalMetadata(s.Metadata)
	if err != nil {
		return err
	}
	priority := string(s.Priority)
	status := string(s.Status)

	m.ID = s.ID
	m.UserID = s.UserID
	m.Type = string(s.Type)
	m.Title = s.Title
	m.Description = s.Description
	m.Metadata = raw
	m.Priority = &priority
	m.Status = &status
	m.CreatedAt = s.CreatedAt
	return nil
}

// WhatsAppLogModel maps the whatsapp_logs table
type WhatsAppLogModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	MessageType string    `gorm:"not null"`
	Content     string    `gorm:"not null"`
	HasFile     bool      `gorm:"not null"`
	FileType    *string
	FileURL     *string
	Processed   bool      `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for WhatsAppLogModel
func (WhatsAppLogModel) TableName() string { return "whatsapp_logs" }

// FromDomainLog populates the model from a domain WhatsAppLog
func (m *WhatsAppLogModel) FromDomainLog(l *messaging.WhatsAppLog) {
	m.ID = l.ID
	m.UserID = l.UserID
	m.MessageType = l.MessageType.String()
	m.Content = l.Content
	m.HasFile = l.HasFile
	m.Processed = l.Processed
	m.CreatedAt = l.CreatedAt
	if l.FileType != "" {
		m.FileType = &l.FileType
	}
	if l.FileURL != "" {
		m.FileURL = &l.FileURL
	}
}
