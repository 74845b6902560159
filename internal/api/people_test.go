package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/lineagehq/lineage/internal/api"
	"github.com/lineagehq/lineage/internal/models"
)

func TestPersonCreate_Valid(t *testing.T) {
	t.Parallel()

	svc := &mockPersonService{
		createFn: func(_ context.Context, _ string, req models.CreatePersonRequest) (*models.Person, error) {
			return &models.Person{
				ID:        req.ID,
				Name:      req.Name,
				Sex:       req.Sex,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}, nil
		},
	}

	r := newTestRouter()
	h := api.NewPersonHandler(svc, testLogger())
	r.POST("/people", h.Create)

	w := doRequest(r, http.MethodPost, "/people", `{"id":"alice","name":"Alice","sex":"female"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var person models.Person
	if err := json.Unmarshal(w.Body.Bytes(), &person); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if person.ID != "alice" {
		t.Errorf("expected id 'alice', got %q", person.ID)
	}
}

func TestPersonCreate_MissingName(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	h := api.NewPersonHandler(&mockPersonService{}, testLogger())
	r.POST("/people", h.Create)

	w := doRequest(r, http.MethodPost, "/people", `{"id":"alice","sex":"female"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestPersonCreate_Duplicate(t *testing.T) {
	t.Parallel()

	svc := &mockPersonService{
		createFn: func(_ context.Context, _ string, _ models.CreatePersonRequest) (*models.Person, error) {
			return nil, models.ErrDuplicateKey
		},
	}

	r := newTestRouter()
	h := api.NewPersonHandler(svc, testLogger())
	r.POST("/people", h.Create)

	w := doRequest(r, http.MethodPost, "/people", `{"id":"alice","name":"Alice"}`)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestPersonGet_Found(t *testing.T) {
	t.Parallel()

	svc := &mockPersonService{
		getFn: func(_ context.Context, _ string, personID string) (*models.Person, error) {
			return &models.Person{ID: personID, Name: "Alice"}, nil
		},
	}

	r := newTestRouter()
	h := api.NewPersonHandler(svc, testLogger())
	r.GET("/people/:id", h.Get)

	w := doRequest(r, http.MethodGet, "/people/alice", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var person models.Person
	if err := json.Unmarshal(w.Body.Bytes(), &person); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if person.ID != "alice" {
		t.Errorf("expected id 'alice', got %q", person.ID)
	}
}

func TestPersonGet_NotFound(t *testing.T) {
	t.Parallel()

	svc := &mockPersonService{
		getFn: func(_ context.Context, _, _ string) (*models.Person, error) {
			return nil, models.ErrPersonNotFound
		},
	}

	r := newTestRouter()
	h := api.NewPersonHandler(svc, testLogger())
	r.GET("/people/:id", h.Get)

	w := doRequest(r, http.MethodGet, "/people/missing", "")

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestPersonList_FilterPassedThrough(t *testing.T) {
	t.Parallel()

	var gotFilter string

	svc := &mockPersonService{
		listFn: func(_ context.Context, _ string, nameFilter string, _, _ int) ([]models.Person, bool, error) {
			gotFilter = nameFilter

			return []models.Person{{ID: "alice", Name: "Alice"}}, false, nil
		},
	}

	r := newTestRouter()
	h := api.NewPersonHandler(svc, testLogger())
	r.GET("/people", h.List)

	w := doRequest(r, http.MethodGet, "/people?name=ali", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if gotFilter != "ali" {
		t.Errorf("expected name filter 'ali', got %q", gotFilter)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if body["has_more"] != false {
		t.Errorf("expected has_more=false, got %v", body["has_more"])
	}
}

func TestPersonUpdate_OK(t *testing.T) {
	t.Parallel()

	svc := &mockPersonService{
		updateFn: func(_ context.Context, _, personID string, _ models.UpdatePersonRequest) (*models.Person, error) {
			return &models.Person{ID: personID, Name: "Updated"}, nil
		},
	}

	r := newTestRouter()
	h := api.NewPersonHandler(svc, testLogger())
	r.PATCH("/people/:id", h.Update)

	w := doRequest(r, http.MethodPatch, "/people/alice", `{"name":"Updated"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestPersonDelete_OK(t *testing.T) {
	t.Parallel()

	svc := &mockPersonService{
		deleteFn: func(_ context.Context, _, _ string) error {
			return nil
		},
	}

	r := newTestRouter()
	h := api.NewPersonHandler(svc, testLogger())
	r.DELETE("/people/:id", h.Delete)

	w := doRequest(r, http.MethodDelete, "/people/alice", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if body["deleted"] != true {
		t.Errorf("expected deleted=true, got %v", body["deleted"])
	}
}
