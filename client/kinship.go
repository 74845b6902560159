package client

import (
	"context"
	"net/url"
)

// KinshipQueryService answers "how are these two people related" queries.
type KinshipQueryService struct {
	c *Client
}

// Resolve returns the relationship between two people. An unrelated pair is
// a successful call: the result carries the "unrelated" label with a nil
// degree.
func (s *KinshipQueryService) Resolve(ctx context.Context, fromID, toID string) (*ResolveResponse, error) {
	params := url.Values{}
	params.Set("from", fromID)
	params.Set("to", toID)

	var resp ResolveResponse
	if err := s.c.get(ctx, "/api/kinship/resolve", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
