package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lineagehq/lineage/internal/models"
)

// PersonHandler serves person CRUD endpoints.
type PersonHandler struct {
	svc PersonService
	log *logrus.Logger
}

// NewPersonHandler creates a PersonHandler with the given service and logger.
func NewPersonHandler(svc PersonService, log *logrus.Logger) *PersonHandler {
	return &PersonHandler{svc: svc, log: log}
}

// List handles GET /api/people.
func (h *PersonHandler) List(c *gin.Context) {
	workspaceID := getWorkspaceID(c)
	if workspaceID == "" {
		return
	}
	nameFilter := c.Query("name")
	limit := parseInt(c.DefaultQuery("limit", "50"), 50)
	offset := parseOffset(c.DefaultQuery("offset", "0"))

	people, hasMore, err := h.svc.ListPersons(c.Request.Context(), workspaceID, nameFilter, limit, offset)
	if err != nil {
		h.log.WithError(err).Error("listing people")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, gin.H{"people": people, "has_more": hasMore})
}

// Get handles GET /api/people/:id.
func (h *PersonHandler) Get(c *gin.Context) {
	personID := c.Param("id")
	if err := validatePathID(personID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	workspaceID := getWorkspaceID(c)
	if workspaceID == "" {
		return
	}

	person, err := h.svc.GetPerson(c.Request.Context(), workspaceID, personID)
	if err != nil {
		if errors.Is(err, models.ErrPersonNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "person not found")

			return
		}

		h.log.WithError(err).Error("getting person")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, person)
}

// Create handles POST /api/people.
func (h *PersonHandler) Create(c *gin.Context) {
	var req models.CreatePersonRequest
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

	person, err := h.svc.CreatePerson(c.Request.Context(), workspaceID, req)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateKey) {
			respondError(c, http.StatusConflict, "conflict", "person with this ID already exists")

			return
		}

		h.log.WithError(err).Error("creating person")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "person.create", "workspace_id": workspaceID, "person_id": person.ID}).Info("audit")

	c.JSON(http.StatusCreated, person)
}

// Update handles PATCH /api/people/:id.
func (h *PersonHandler) Update(c *gin.Context) {
	personID := c.Param("id")
	if err := validatePathID(personID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.UpdatePersonRequest
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

	person, err := h.svc.UpdatePerson(c.Request.Context(), workspaceID, personID, req)
	if err != nil {
		if errors.Is(err, models.ErrPersonNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "person not found")

			return
		}

		h.log.WithError(err).Error("updating person")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "person.update", "workspace_id": workspaceID, "person_id": personID}).Info("audit")

	c.JSON(http.StatusOK, person)
}

// Delete handles DELETE /api/people/:id.
// Deleting a person also removes every relationship record that references them.
func (h *PersonHandler) Delete(c *gin.Context) {
	personID := c.Param("id")
	if err := validatePathID(personID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	workspaceID := getWorkspaceID(c)
	if workspaceID == "" {
		return
	}

	err := h.svc.DeletePerson(c.Request.Context(), workspaceID, personID)
	if err != nil {
		if errors.Is(err, models.ErrPersonNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "person not found")

			return
		}

		h.log.WithError(err).Error("deleting person")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "person.delete", "workspace_id": workspaceID, "person_id": personID}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
