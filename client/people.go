package client

import (
	"context"
	"net/url"
	"strconv"
)

// PeopleService handles person record operations.
type PeopleService struct {
	c *Client
}

// personListResponse wraps the paginated person list response.
type personListResponse struct {
	People  []Person `json:"people"`
	HasMore bool     `json:"has_more"`
}

// List returns people with optional name filtering and pagination.
func (s *PeopleService) List(ctx context.Context, opts *PersonListOptions) ([]Person, bool, error) {
	params := url.Values{}
	if opts != nil {
		if opts.Name != "" {
			params.Set("name", opts.Name)
		}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Offset > 0 {
			params.Set("offset", strconv.Itoa(opts.Offset))
		}
	}
	var resp personListResponse
	if err := s.c.get(ctx, "/api/people", params, &resp); err != nil {
		return nil, false, err
	}
	return resp.People, resp.HasMore, nil
}

// Get returns a single person by ID.
func (s *PeopleService) Get(ctx context.Context, id string) (*Person, error) {
	var person Person
	if err := s.c.get(ctx, "/api/people/"+url.PathEscape(id), nil, &person); err != nil {
		return nil, err
	}
	return &person, nil
}

// Create creates a new person record.
func (s *PeopleService) Create(ctx context.Context, req *CreatePersonRequest) (*Person, error) {
	var person Person
	if err := s.c.post(ctx, "/api/people", req, &person); err != nil {
		return nil, err
	}
	return &person, nil
}

// Update updates an existing person by ID.
func (s *PeopleService) Update(ctx context.Context, id string, req *UpdatePersonRequest) (*Person, error) {
	var person Person
	if err := s.c.patch(ctx, "/api/people/"+url.PathEscape(id), req, &person); err != nil {
		return nil, err
	}
	return &person, nil
}

// Delete removes a person and every relationship record that references them.
func (s *PeopleService) Delete(ctx context.Context, id string) error {
	return s.c.del(ctx, "/api/people/"+url.PathEscape(id), nil, nil)
}

// BulkUpsert inserts or updates a batch of person records.
func (s *PeopleService) BulkUpsert(ctx context.Context, reqs []CreatePersonRequest) (int, error) {
	var resp struct {
		Upserted int `json:"upserted"`
	}
	if err := s.c.post(ctx, "/api/people/bulk", reqs, &resp); err != nil {
		return 0, err
	}
	return resp.Upserted, nil
}
