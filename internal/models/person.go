// Package models defines data types for the family record store.
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Sexes accepted on person records. Empty means unrecorded.
const (
	SexFemale = "female"
	SexMale   = "male"
)

// Person represents one individual in a workspace's family records.
type Person struct {
	ID          string         `json:"id"`
	WorkspaceID uuid.UUID      `json:"-"`
	Name        string         `json:"name"`
	Sex         string         `json:"sex,omitempty"`
	BirthDate   *time.Time     `json:"birth_date,omitempty"`
	DeathDate   *time.Time     `json:"death_date,omitempty"`
	Notes       string         `json:"notes,omitempty"`
	Attributes  map[string]any `json:"attributes"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// PersonSummary is a lightweight representation for listings and resolve
// responses.
type PersonSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Sex  string `json:"sex,omitempty"`
}

// Summary projects a Person onto its summary form.
func (p *Person) Summary() PersonSummary {
	return PersonSummary{ID: p.ID, Name: p.Name, Sex: p.Sex}
}

// CreatePersonRequest is the payload for creating a new person.
type CreatePersonRequest struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Sex        string         `json:"sex,omitempty"`
	BirthDate  *time.Time     `json:"birth_date,omitempty"`
	DeathDate  *time.Time     `json:"death_date,omitempty"`
	Notes      string         `json:"notes,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Validate checks that required fields are present and within limits on
// CreatePersonRequest. If ID is empty, a UUID is auto-generated.
func (r *CreatePersonRequest) Validate() error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}

	if len(r.ID) > 255 {
		return ErrFieldTooLong("id", 255)
	}

	if r.Name == "" {
		return ErrMissingName
	}

	if len(r.Name) > 500 {
		return ErrFieldTooLong("name", 500)
	}

	if err := validSex(r.Sex); err != nil {
		return err
	}

	if len(r.Notes) > 10000 {
		return ErrFieldTooLong("notes", 10000)
	}

	if r.Attributes != nil {
		data, err := json.Marshal(r.Attributes)
		if err != nil {
			return fmt.Errorf("invalid attributes: %w", err)
		}
		if len(data) > 65536 {
			return ErrFieldTooLong("attributes", 65536)
		}
	}

	return nil
}

// UpdatePersonRequest is the payload for updating an existing person.
type UpdatePersonRequest struct {
	Name       *string        `json:"name,omitempty"`
	Sex        *string        `json:"sex,omitempty"`
	BirthDate  *time.Time     `json:"birth_date,omitempty"`
	DeathDate  *time.Time     `json:"death_date,omitempty"`
	Notes      *string        `json:"notes,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Validate checks UpdatePersonRequest fields.
func (r *UpdatePersonRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	if r.Name != nil && len(*r.Name) > 500 {
		return ErrFieldTooLong("name", 500)
	}

	if r.Sex != nil {
		if err := validSex(*r.Sex); err != nil {
			return err
		}
	}

	if r.Notes != nil && len(*r.Notes) > 10000 {
		return ErrFieldTooLong("notes", 10000)
	}

	if r.Attributes != nil {
		data, err := json.Marshal(r.Attributes)
		if err != nil {
			return fmt.Errorf("invalid attributes: %w", err)
		}
		if len(data) > 65536 {
			return ErrFieldTooLong("attributes", 65536)
		}
	}

	return nil
}

func validSex(sex string) error {
	switch sex {
	case "", SexFemale, SexMale:
		return nil
	default:
		return ErrInvalidSex
	}
}
