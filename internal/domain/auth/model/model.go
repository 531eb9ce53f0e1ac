package model

import (
	"time"
)

// AdminRoleID is the role every block/unblock actor must hold.
const AdminRoleID int64 = 1

// DefaultRoleID is assigned to locally registered users.
const DefaultRoleID int64 = 2

type User struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string     `gorm:"column:name"`
	Email     string     `gorm:"column:email;uniqueIndex"`
	Password  string     `gorm:"column:password"`
	RoleID    int64      `gorm:"column:id_rol"`
	Active    bool       `gorm:"column:active;default:true"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
	DeletedAt *time.Time `gorm:"column:deleted_at"`
	DeletedBy *int64     `gorm:"column:deleted_by"`
}

func (User) TableName() string { return "tbl_users" }

func (u User) IsAdmin() bool { return u.RoleID == AdminRoleID }

// CanSignIn is false for blocked and soft-deleted accounts.
func (u User) CanSignIn() bool { return u.Active && u.DeletedAt == nil }

// Personal is the HR record a registration is linked to.
type Personal struct {
	Cedula       string    `gorm:"column:cedula;primaryKey"`
	Nombre       string    `gorm:"column:nombre"`
	FechaIngreso time.Time `gorm:"column:fecha_ingreso"`
	Cargo        string    `gorm:"column:cargo"`
}

func (Personal) TableName() string { return "tbl_personal" }

type Role struct {
	ID         int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Name       string     `gorm:"column:name"`
	IsAdmin    bool       `gorm:"column:is_admin"`
	CanPublish bool       `gorm:"column:can_publish"`
	CanApprove bool       `gorm:"column:can_approve"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at"`
	DeletedAt  *time.Time `gorm:"column:deleted_at"`
	DeletedBy  *int64     `gorm:"column:deleted_by"`
}

func (Role) TableName() string { return "tbl_roles" }

// CredentialPair is what the identity provider issues on a successful login.
// IDToken may be empty for providers that do not issue one.
type CredentialPair struct {
	IDToken      string
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

// Tokens is the transport shape of a CredentialPair: one field per cookie.
type Tokens struct {
	ID      string
	Access  string
	Refresh string
	TTL     time.Duration
}

// TokenPayload holds the verified claims of a bearer token.
type TokenPayload struct {
	Subject   string
	Username  string
	Email     string
	Groups    []string
	TokenUse  string
	ClientID  string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Principal is the identity established for one request.
type Principal struct {
	SubjectID string
	Email     string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// Profile is the caller as reported by GET /api/auth/profile.
type Profile struct {
	SubjectID string `json:"subjectId"`
	UserID    int64  `json:"userId,omitempty"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	Role      string `json:"role"`
	IsAdmin   bool   `json:"isAdmin"`
}

// PrincipalFromPayload prefers the email claim and falls back to the
// username, which is the email for accounts created by this service.
func PrincipalFromPayload(p TokenPayload) Principal {
	email := p.Email
	if email == "" {
		email = p.Username
	}
	role := ""
	if len(p.Groups) > 0 {
		role = p.Groups[0]
	}
	return Principal{
		SubjectID: p.Subject,
		Email:     email,
		Role:      role,
		TokenID:   p.TokenID,
		ExpiresAt: p.ExpiresAt,
	}
}
