package model

import (
	"time"

	"github.com/barakov14/easylang-backend/pkg/rbac"
)

// User availability states.
const (
	UserStatusReady    = "READY"
	UserStatusNotReady = "NOT_READY"
)

type User struct {
	ID                 int64     `json:"id"`
	Username           string    `json:"username"`
	Name               string    `json:"name"`
	Surname            string    `json:"surname"`
	Email              string    `json:"email"`
	Role               rbac.Role `json:"role"`
	Rate               float64   `json:"rate"`
	Status             string    `json:"status"`
	PasswordHash       string    `json:"-"`
	TasksCompleted     int       `json:"tasks_completed"`
	TasksEvaluated     int       `json:"tasks_evaluated"`
	ProjectsCreated    int       `json:"projects_created"`
	NotificationsCount int       `json:"notifications_count"`
	CreatedAt          time.Time `json:"created_at"`
}

// FullName is used in notification messages.
func (u *User) FullName() string {
	return u.Name + " " + u.Surname
}
