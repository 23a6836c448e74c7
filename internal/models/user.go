package models

import "time"

// Roles accepted at registration.
const (
	RoleStudent = "STUDENT"
	RoleAlumni  = "ALUMNI"
	RoleFaculty = "FACULTY"
)

type User struct {
	ID        int    `gorm:"primaryKey" json:"id"`
	Username  string `gorm:"unique;not null" json:"username"`
	FirstName string `gorm:"not null" json:"firstName"`
	LastName  string `gorm:"not null" json:"lastName"`
	Email     string `gorm:"unique;not null" json:"email"`
	Password  string `gorm:"not null" json:"-"`
	Enabled   bool   `gorm:"default:false" json:"enabled"`
	Role      string `gorm:"not null" json:"role"`

	PhoneNumber    string `json:"phoneNumber,omitempty"`
	GithubLink     string `json:"githubLink,omitempty"`
	Linkedin       string `json:"linkedin,omitempty"`
	Portfolio      string `json:"portfolio,omitempty"`
	GraduationYear string `json:"graduationYear,omitempty"`
	CurrentCompany string `json:"currentCompany,omitempty"`
	RegNo          string `json:"regNo,omitempty"`
	YearOfStudy    string `json:"yearOfStudy,omitempty"`
	BranchOfStudy  string `json:"branchOfStudy,omitempty"`

	// Shared by account activation and password reset; one outstanding token at a time.
	VerificationToken        *string    `gorm:"index" json:"-"`
	VerificationTokenExpires *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type RegisterRequest struct {
	Username       string `json:"username" binding:"required,min=3,max=30"`
	FirstName      string `json:"firstName" binding:"required"`
	LastName       string `json:"lastName" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8"`
	Role           string `json:"role" binding:"required,oneof=STUDENT ALUMNI FACULTY"`
	PhoneNumber    string `json:"phoneNumber" binding:"omitempty,numeric,len=10"`
	GithubLink     string `json:"githubLink" binding:"omitempty,url"`
	Linkedin       string `json:"linkedin" binding:"omitempty,url"`
	Portfolio      string `json:"portfolio" binding:"omitempty,url"`
	RegNo          string `json:"regNo"`
	CurrentYear    string `json:"currentYear"`
	BranchOfStudy  string `json:"branchOfStudy"`
	GraduationYear string `json:"graduationYear"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
	ReEnterPassword string `json:"reEnterPassword" binding:"required"`
}

type SetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Author is the public slice of a user embedded in projections.
type Author struct {
	ID       int    `json:"_id"`
	Username string `json:"username"`
}
