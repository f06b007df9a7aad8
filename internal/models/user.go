package models

import "fmt"

// User represents a user in the system
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   *int   `json:"age"`
}

// UpdateUserRequest is the body of create and full update requests
type UpdateUserRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
	Age   *int   `json:"age" validate:"omitempty,min=0,max=150"`
}

// Describe renders the request the way audit details record it
func (r UpdateUserRequest) Describe() string {
	age := "null"
	if r.Age != nil {
		age = fmt.Sprintf("%d", *r.Age)
	}
	return fmt.Sprintf("Name=%s, Email=%s, Age=%s", r.Name, r.Email, age)
}

// UpdateEmailRequest changes a user's email when the current name matches
type UpdateEmailRequest struct {
	CurrentName string `json:"currentName" validate:"required"`
	NewEmail    string `json:"newEmail" validate:"required,email"`
}

// EmailUpdateResult is returned after a successful email change
type EmailUpdateResult struct {
	Message  string `json:"message"`
	UserID   int    `json:"userId"`
	NewEmail string `json:"newEmail"`
}

// UserList is the result of listing users. Skipped counts rows that could
// not be read.
type UserList struct {
	Users   []User
	Skipped int
}
