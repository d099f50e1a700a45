// internal/models/user.go
package models

import (
	"time"

	dbgen "github.com/codr1/Clubhouse/internal/db/generated"
)

// User is an admin account. The password hash never leaves the server.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Img       string    `json:"img,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func UserFromDB(row dbgen.User) User {
	return User{
		ID:        row.ID,
		Email:     row.Email,
		Name:      row.Name,
		Phone:     row.Phone,
		Img:       row.Img,
		CreatedAt: row.CreatedAt,
	}
}
