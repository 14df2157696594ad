package patron

import (
	"errors"
	"time"
)

type Type string

const (
	TypeStudent Type = "student"
	TypeFaculty Type = "faculty"
	TypeStaff   Type = "staff"
)

func (t Type) Valid() bool {
	switch t {
	case TypeStudent, TypeFaculty, TypeStaff:
		return true
	}
	return false
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusInactive, StatusSuspended:
		return true
	}
	return false
}

var (
	ErrNotFound        = errors.New("patron not found")
	ErrDuplicateRollNo = errors.New("roll number already exists")
	ErrBadCredentials  = errors.New("invalid roll number or password")
	ErrNotActive       = errors.New("patron account is not active")
)

type Patron struct {
	ID                uint64     `gorm:"primaryKey;column:id" json:"id"`
	RollNo            string     `gorm:"size:50;not null;uniqueIndex:ux_patrons_roll_no" json:"roll_no"`
	Name              string     `gorm:"size:255;not null" json:"name"`
	Email             string     `gorm:"size:255" json:"email"`
	Phone             string     `gorm:"size:20" json:"phone"`
	PatronType        Type       `gorm:"size:20;not null" json:"patron_type"`
	Department        string     `gorm:"size:100" json:"department"`
	Division          string     `gorm:"size:50" json:"division"`
	Status            Status     `gorm:"size:20;not null;index" json:"status"`
	MaxBooks          int        `gorm:"not null" json:"max_books"`
	PasswordHash      string     `gorm:"size:255" json:"-"`
	FirstLogin        bool       `gorm:"not null" json:"first_login"`
	ApprovedBy        *uint64    `json:"approved_by,omitempty"`
	ApprovedAt        *time.Time `json:"approved_at,omitempty"`
	PasswordChangedBy *uint64    `json:"password_changed_by,omitempty"`
	PasswordChangedAt *time.Time `json:"password_changed_at,omitempty"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Patron) TableName() string { return "patrons" }

// ResetCredential puts the patron back on the default password and forces a change on next login.
func (p *Patron) ResetCredential(hash string) {
	p.PasswordHash = hash
	p.FirstLogin = true
}

func (p *Patron) IsActive() bool { return p.Status == StatusActive }

// Columns written when an existing roll number is upserted.
var (
	ProfileColumns    = []string{"name", "email", "phone", "patron_type", "department", "division", "status", "max_books", "updated_at"}
	CredentialColumns = []string{"password_hash", "first_login"}
	// RestoreColumns leaves the stored password untouched.
	RestoreColumns = append(append([]string{}, ProfileColumns...), "first_login")
)

func EnrollColumns() []string {
	return append(append([]string{}, ProfileColumns...), CredentialColumns...)
}
