package client

import (
	"context"
	"net/url"
	"strconv"
)

// RelationshipsService handles relationship record operations.
type RelationshipsService struct {
	c *Client
}

// relationshipListResponse wraps the paginated relationship list response.
type relationshipListResponse struct {
	Relationships []Relationship `json:"relationships"`
	HasMore       bool           `json:"has_more"`
}

// List returns relationship records with optional filtering and pagination.
// The Person filter matches records where the ID appears on either side.
func (s *RelationshipsService) List(ctx context.Context, opts *RelationshipListOptions) ([]Relationship, bool, error) {
	params := url.Values{}
	if opts != nil {
		if opts.Person != "" {
			params.Set("person", opts.Person)
		}
		if opts.Type != "" {
			params.Set("type", opts.Type)
		}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Offset > 0 {
			params.Set("offset", strconv.Itoa(opts.Offset))
		}
	}
	var resp relationshipListResponse
	if err := s.c.get(ctx, "/api/relationships", params, &resp); err != nil {
		return nil, false, err
	}
	return resp.Relationships, resp.HasMore, nil
}

// Create records a new relationship between two people.
func (s *RelationshipsService) Create(ctx context.Context, req *CreateRelationshipRequest) (*Relationship, error) {
	var rel Relationship
	if err := s.c.post(ctx, "/api/relationships", req, &rel); err != nil {
		return nil, err
	}
	return &rel, nil
}

// Delete removes a relationship record by its composite key.
func (s *RelationshipsService) Delete(ctx context.Context, personA, personB, relType string) error {
	path := "/api/relationships/" + url.PathEscape(personA) +
		"/" + url.PathEscape(personB) +
		"/" + url.PathEscape(relType)
	return s.c.del(ctx, path, nil, nil)
}

// BulkInsert records a batch of relationships. The insert is idempotent;
// the returned count covers only records that were actually new.
func (s *RelationshipsService) BulkInsert(ctx context.Context, reqs []CreateRelationshipRequest) (int, error) {
	var resp struct {
		Inserted int `json:"inserted"`
	}
	if err := s.c.post(ctx, "/api/relationships/bulk", reqs, &resp); err != nil {
		return 0, err
	}
	return resp.Inserted, nil
}
