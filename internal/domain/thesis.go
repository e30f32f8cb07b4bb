package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ThesisStatus — статус дипломной работы в конвейере рецензирования
type ThesisStatus string

const (
	StatusDraft       ThesisStatus = "draft"
	StatusUnderReview ThesisStatus = "under_review"
	StatusApproved    ThesisStatus = "approved"
	StatusPublished   ThesisStatus = "published"
	StatusRejected    ThesisStatus = "rejected"
)

// Role — роль аутентифицированного пользователя.
// Роли приходят из внешнего сервиса авторизации и принимаются как есть.
type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
	RoleAdmin   Role = "admin"
	RoleAdviser Role = "adviser"
	RoleProf    Role = "prof"
)

// CanAuthor сообщает, может ли роль выступать автором работы.
// Само авторство конкретной работы определяется членством в Authors.
func (r Role) CanAuthor() bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleProf:
		return true
	}
	return false
}

// Principal — разрешённый субъект запроса
type Principal struct {
	UserID     string `json:"user_id"`
	Role       Role   `json:"role"`
	Department string `json:"department"`
}

// Thesis — рецензируемая единица.
// IsPublic — производное поле: оно выставляется только внутри перехода
// approved -> published и нигде больше не принимается на вход.
type Thesis struct {
	ID             uuid.UUID      `json:"id" db:"id"`
	Title          string         `json:"title" db:"title"`
	Abstract       string         `json:"abstract" db:"abstract"`
	Department     string         `json:"department" db:"department"`
	Status         ThesisStatus   `json:"status" db:"status"`
	Authors        pq.StringArray `json:"authors" db:"authors"`
	AdviserID      *string        `json:"adviser_id,omitempty" db:"adviser_id"`
	ReviewerID     *string        `json:"reviewer_id,omitempty" db:"reviewer_id"`
	ReviewedAt     *time.Time     `json:"reviewed_at,omitempty" db:"reviewed_at"`
	ReviewComments *string        `json:"review_comments,omitempty" db:"review_comments"`
	ReviewScore    *int           `json:"review_score,omitempty" db:"review_score"`
	IsPublic       bool           `json:"is_public" db:"is_public"`
	SubmittedAt    *time.Time     `json:"submitted_at,omitempty" db:"submitted_at"`
	PublishedAt    *time.Time     `json:"published_at,omitempty" db:"published_at"`
	Version        int            `json:"version" db:"version"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// HasAuthor проверяет, числится ли пользователь среди авторов работы
func (t *Thesis) HasAuthor(userID string) bool {
	for _, id := range t.Authors {
		if id == userID {
			return true
		}
	}
	return false
}
