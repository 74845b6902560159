package models

import "github.com/lineagehq/lineage/internal/kinship"

// ResolveResponse is the answer to a kinship query: the classified
// relationship of From to To plus a rendered sentence.
type ResolveResponse struct {
	From         PersonSummary   `json:"from"`
	To           PersonSummary   `json:"to"`
	Relationship *kinship.Result `json:"relationship"`
	Description  string          `json:"description"`
}
