package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lineagehq/lineage/internal/models"
)

// RelationshipHandler serves relationship record endpoints.
type RelationshipHandler struct {
	svc RelationshipService
	log *logrus.Logger
}

// NewRelationshipHandler creates a RelationshipHandler with the given service and logger.
func NewRelationshipHandler(svc RelationshipService, log *logrus.Logger) *RelationshipHandler {
	return &RelationshipHandler{svc: svc, log: log}
}

// List handles GET /api/relationships.
// The person filter matches records where the ID appears on either side.
func (h *RelationshipHandler) List(c *gin.Context) {
	workspaceID := getWorkspaceID(c)
	if workspaceID == "" {
		return
	}
	person := c.Query("person")
	relType := c.Query("type")
	limit := parseInt(c.DefaultQuery("limit", "50"), 50)
	offset := parseOffset(c.DefaultQuery("offset", "0"))

	rels, hasMore, err := h.svc.ListRelationships(c.Request.Context(), workspaceID, person, relType, limit, offset)
	if err != nil {
		h.log.WithError(err).Error("listing relationships")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, gin.H{"relationships": rels, "has_more": hasMore})
}

// Create handles POST /api/relationships.
func (h *RelationshipHandler) Create(c *gin.Context) {
	var req models.CreateRelationshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	workspaceID := getWorkspaceID(c)
	if workspaceID == "" {
		return
	}

	rel, err := h.svc.CreateRelationship(c.Request.Context(), workspaceID, req)
	if err != nil {
		if errors.Is(err, models.ErrPersonNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, err.Error())

			return
		}

		if errors.Is(err, models.ErrDuplicateKey) {
			respondError(c, http.StatusConflict, "conflict", "relationship already recorded")

			return
		}

		h.log.WithError(err).Error("creating relationship")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{
		"action": "relationship.create", "workspace_id": workspaceID,
		"person_a": rel.PersonA, "person_b": rel.PersonB, "type": rel.Type,
	}).Info("audit")

	c.JSON(http.StatusCreated, rel)
}

// Delete handles DELETE /api/relationships/:a/:b/:type.
func (h *RelationshipHandler) Delete(c *gin.Context) {
	personA := c.Param("a")
	personB := c.Param("b")
	relType := c.Param("type")

	for _, pair := range []struct{ name, val string }{{"a", personA}, {"b", personB}, {"type", relType}} {
		if err := validatePathID(pair.val); err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid "+pair.name+": "+err.Error())
			return
		}
	}

	workspaceID := getWorkspaceID(c)
	if workspaceID == "" {
		return
	}

	err := h.svc.DeleteRelationship(c.Request.Context(), workspaceID, personA, personB, relType)
	if err != nil {
		if errors.Is(err, models.ErrRelationshipNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "relationship not found")

			return
		}

		h.log.WithError(err).Error("deleting relationship")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{
		"action": "relationship.delete", "workspace_id": workspaceID,
		"person_a": personA, "person_b": personB, "type": relType,
	}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
