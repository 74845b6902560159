package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lineagehq/lineage/internal/kinship"
	"github.com/lineagehq/lineage/internal/models"
)

// KinshipHandler serves the kinship resolution endpoint.
type KinshipHandler struct {
	svc KinshipService
	log *logrus.Logger
}

// NewKinshipHandler creates a KinshipHandler with the given service and logger.
func NewKinshipHandler(svc KinshipService, log *logrus.Logger) *KinshipHandler {
	return &KinshipHandler{svc: svc, log: log}
}

// Resolve handles GET /api/kinship/resolve?from=&to=.
// An unrelated pair is a successful query: the response carries the
// "unrelated" label with a null degree, not an error status.
func (h *KinshipHandler) Resolve(c *gin.Context) {
	fromID := c.Query("from")
	toID := c.Query("to")

	for _, pair := range []struct{ name, val string }{{"from", fromID}, {"to", toID}} {
		if err := validatePathID(pair.val); err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid "+pair.name+": "+err.Error())
			return
		}
	}

	workspaceID := getWorkspaceID(c)
	if workspaceID == "" {
		return
	}

	resp, err := h.svc.Resolve(c.Request.Context(), workspaceID, fromID, toID)
	if err != nil {
		if errors.Is(err, kinship.ErrInvalidQuery) {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

			return
		}

		if errors.Is(err, models.ErrPersonNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, err.Error())

			return
		}

		h.log.WithError(err).Error("resolving kinship")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{
		"action": "kinship.resolve", "workspace_id": workspaceID,
		"from": fromID, "to": toID, "label": resp.Relationship.Label,
	}).Info("audit")

	c.JSON(http.StatusOK, resp)
}
