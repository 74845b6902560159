package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/lineagehq/lineage/internal/api"
	"github.com/lineagehq/lineage/internal/kinship"
	"github.com/lineagehq/lineage/internal/models"
)

func TestRelationshipCreate_Valid(t *testing.T) {
	t.Parallel()

	svc := &mockRelationshipService{
		createFn: func(_ context.Context, _ string, req models.CreateRelationshipRequest) (*models.Relationship, error) {
			return &models.Relationship{
				Seq:     1,
				PersonA: req.PersonA,
				PersonB: req.PersonB,
				Type:    kinship.EdgeType(req.Type),
			}, nil
		},
	}

	r := newTestRouter()
	h := api.NewRelationshipHandler(svc, testLogger())
	r.POST("/relationships", h.Create)

	w := doRequest(r, http.MethodPost, "/relationships", `{"person_a":"mary","person_b":"john","type":"parent_child"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var rel models.Relationship
	if err := json.Unmarshal(w.Body.Bytes(), &rel); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if rel.PersonA != "mary" || rel.PersonB != "john" {
		t.Errorf("unexpected relationship endpoints: %q -> %q", rel.PersonA, rel.PersonB)
	}
}

func TestRelationshipCreate_UnknownType(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	h := api.NewRelationshipHandler(&mockRelationshipService{}, testLogger())
	r.POST("/relationships", h.Create)

	w := doRequest(r, http.MethodPost, "/relationships", `{"person_a":"mary","person_b":"john","type":"nemesis"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRelationshipCreate_SelfEdge(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	h := api.NewRelationshipHandler(&mockRelationshipService{}, testLogger())
	r.POST("/relationships", h.Create)

	w := doRequest(r, http.MethodPost, "/relationships", `{"person_a":"mary","person_b":"mary","type":"spouse"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRelationshipCreate_UnknownPerson(t *testing.T) {
	t.Parallel()

	svc := &mockRelationshipService{
		createFn: func(_ context.Context, _ string, _ models.CreateRelationshipRequest) (*models.Relationship, error) {
			return nil, models.ErrPersonNotFound
		},
	}

	r := newTestRouter()
	h := api.NewRelationshipHandler(svc, testLogger())
	r.POST("/relationships", h.Create)

	w := doRequest(r, http.MethodPost, "/relationships", `{"person_a":"ghost","person_b":"john","type":"spouse"}`)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRelationshipList_OK(t *testing.T) {
	t.Parallel()

	svc := &mockRelationshipService{
		listFn: func(_ context.Context, _, person, relType string, _, _ int) ([]models.Relationship, bool, error) {
			return []models.Relationship{
				{Seq: 1, PersonA: "mary", PersonB: "john", Type: kinship.EdgeParentChild},
			}, false, nil
		},
	}

	r := newTestRouter()
	h := api.NewRelationshipHandler(svc, testLogger())
	r.GET("/relationships", h.List)

	w := doRequest(r, http.MethodGet, "/relationships?person=mary", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Relationships []models.Relationship `json:"relationships"`
		HasMore       bool                  `json:"has_more"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if len(body.Relationships) != 1 {
		t.Fatalf("expected 1 relationship, got %d", len(body.Relationships))
	}
}

func TestRelationshipDelete_OK(t *testing.T) {
	t.Parallel()

	var gotA, gotB, gotType string

	svc := &mockRelationshipService{
		deleteFn: func(_ context.Context, _, personA, personB, relType string) error {
			gotA, gotB, gotType = personA, personB, relType

			return nil
		},
	}

	r := newTestRouter()
	h := api.NewRelationshipHandler(svc, testLogger())
	r.DELETE("/relationships/:a/:b/:type", h.Delete)

	w := doRequest(r, http.MethodDelete, "/relationships/mary/john/parent_child", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if gotA != "mary" || gotB != "john" || gotType != "parent_child" {
		t.Errorf("unexpected delete args: %q %q %q", gotA, gotB, gotType)
	}
}

func TestRelationshipDelete_NotFound(t *testing.T) {
	t.Parallel()

	svc := &mockRelationshipService{
		deleteFn: func(_ context.Context, _, _, _, _ string) error {
			return models.ErrRelationshipNotFound
		},
	}

	r := newTestRouter()
	h := api.NewRelationshipHandler(svc, testLogger())
	r.DELETE("/relationships/:a/:b/:type", h.Delete)

	w := doRequest(r, http.MethodDelete, "/relationships/mary/john/spouse", "")

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}
