// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package demo

import "time"

// DefaultDesignation is stored when the visitor leaves the field blank.
const DefaultDesignation = "N/A"

// Input bounds and field identifiers.
const (
	NameMinLength        = 2
	NameMaxLength        = 100
	DesignationMaxLength = 100

	FieldName        = "name"
	FieldEmail       = "email"
	FieldContact     = "contact"
	FieldDesignation = "designation"
)

// Request is a "book a demo" submission from the marketing site.
type Request struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Contact     string    `json:"contact"`
	Designation string    `json:"designation"`
	CreatedAt   time.Time `json:"createdAt"`
}

// BookInput is the demo form as posted.
type BookInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Contact     string `json:"contact"`
	Designation string `json:"designation"`
}
