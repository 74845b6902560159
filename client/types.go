package client

import "time"

// Person represents a person record.
type Person struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Sex        string         `json:"sex,omitempty"`
	BirthDate  *time.Time     `json:"birth_date,omitempty"`
	DeathDate  *time.Time     `json:"death_date,omitempty"`
	Notes      string         `json:"notes,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// PersonSummary is the compact person shape embedded in resolve responses.
type PersonSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Sex  string `json:"sex,omitempty"`
}

// Relationship represents a recorded tie between two people.
type Relationship struct {
	Seq       int64     `json:"seq"`
	PersonA   string    `json:"person_a"`
	PersonB   string    `json:"person_b"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// CreatePersonRequest is the payload for creating a person.
type CreatePersonRequest struct {
	ID         string         `json:"id,omitempty"`
	Name       string         `json:"name"`
	Sex        string         `json:"sex,omitempty"`
	BirthDate  *time.Time     `json:"birth_date,omitempty"`
	DeathDate  *time.Time     `json:"death_date,omitempty"`
	Notes      string         `json:"notes,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// UpdatePersonRequest is the payload for updating a person.
type UpdatePersonRequest struct {
	Name       *string        `json:"name,omitempty"`
	Sex        *string        `json:"sex,omitempty"`
	BirthDate  *time.Time     `json:"birth_date,omitempty"`
	DeathDate  *time.Time     `json:"death_date,omitempty"`
	Notes      *string        `json:"notes,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// CreateRelationshipRequest is the payload for recording a relationship.
type CreateRelationshipRequest struct {
	PersonA string `json:"person_a"`
	PersonB string `json:"person_b"`
	Type    string `json:"type"`
}

// KinshipResult describes the resolved relationship between two people.
type KinshipResult struct {
	Label   string   `json:"label"`
	Degree  *int     `json:"degree"`
	Removal int      `json:"removal"`
	Kind    string   `json:"kind"`
	Path    []string `json:"path"`
}

// ResolveResponse is returned by the kinship resolve endpoint.
type ResolveResponse struct {
	From         PersonSummary  `json:"from"`
	To           PersonSummary  `json:"to"`
	Relationship *KinshipResult `json:"relationship"`
	Description  string         `json:"description"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
}

// StatsResponse is returned by the stats endpoint.
type StatsResponse struct {
	People            int `json:"people"`
	Relationships     int `json:"relationships"`
	RelationshipTypes int `json:"relationship_types"`
	ConnectedClients  int `json:"connected_clients"`
}

// PersonListOptions holds parameters for listing people.
type PersonListOptions struct {
	Name   string
	Limit  int
	Offset int
}

// RelationshipListOptions holds parameters for listing relationships.
type RelationshipListOptions struct {
	Person string
	Type   string
	Limit  int
	Offset int
}
