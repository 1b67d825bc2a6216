// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Username         string     `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email            string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash     string     `json:"-" gorm:"size:255;not null"`
	UserType         UserType   `json:"user_type" gorm:"type:varchar(20);not null"`
	Status           UserStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	IdentityVerified bool       `json:"identity_verified" gorm:"default:false"`
	Phone            string     `json:"phone,omitempty" gorm:"size:30"`
	ProfileData      JSONB      `json:"profile_data" gorm:"type:jsonb"`
	NewsletterOptIn  bool       `json:"newsletter_opt_in" gorm:"default:false;index"`
	EmailVerifiedAt  *time.Time `json:"email_verified_at"`
	LastLoginAt      *time.Time `json:"last_login_at"`

	// Relationships
	Listings []ParkingListing `json:"listings,omitempty" gorm:"foreignKey:HostID"`
	Bookings []Booking        `json:"bookings,omitempty" gorm:"foreignKey:RenterID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
