package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lineagehq/lineage/internal/models"
)

// maxBulkRequestItems caps the number of items accepted in one bulk request.
const maxBulkRequestItems = 1000

// BulkHandler serves batch import endpoints.
type BulkHandler struct {
	svc BulkService
	log *logrus.Logger
}

// NewBulkHandler creates a BulkHandler with the given service and logger.
func NewBulkHandler(svc BulkService, log *logrus.Logger) *BulkHandler {
	return &BulkHandler{svc: svc, log: log}
}

// BulkPeople handles POST /api/people/bulk.
func (h *BulkHandler) BulkPeople(c *gin.Context) {
	var reqs []models.CreatePersonRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if len(reqs) > maxBulkRequestItems {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, "bulk request exceeds maximum of 1000 items")

		return
	}

	for i := range reqs {
		if err := reqs[i].Validate(); err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeValidationError, "item "+strconv.Itoa(i)+": "+err.Error())

			return
		}
	}

	workspaceID := getWorkspaceID(c)
	if workspaceID == "" {
		return
	}

	count, err := h.svc.BulkUpsertPersons(c.Request.Context(), workspaceID, reqs)
	if err != nil {
		h.log.WithError(err).Error("bulk upserting people")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "bulk.people", "workspace_id": workspaceID, "upserted": count}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"upserted": count})
}

// BulkRelationships handles POST /api/relationships/bulk.
// The insert is idempotent: re-importing the same file reports only the
// records that were actually new.
func (h *BulkHandler) BulkRelationships(c *gin.Context) {
	var reqs []models.CreateRelationshipRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if len(reqs) > maxBulkRequestItems {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, "bulk request exceeds maximum of 1000 items")

		return
	}

	for i := range reqs {
		if err := reqs[i].Validate(); err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeValidationError, "item "+strconv.Itoa(i)+": "+err.Error())

			return
		}
	}

	workspaceID := getWorkspaceID(c)
	if workspaceID == "" {
		return
	}

	count, err := h.svc.BulkInsertRelationships(c.Request.Context(), workspaceID, reqs)
	if err != nil {
		if errors.Is(err, models.ErrPersonNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, err.Error())

			return
		}

		h.log.WithError(err).Error("bulk inserting relationships")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "bulk.relationships", "workspace_id": workspaceID, "inserted": count}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"inserted": count})
}
