package web

import (
	"net/http"
	"strconv"

	"tutor-desk/internal/models"
	"tutor-desk/internal/service"

	"github.com/gin-gonic/gin"
)

type allocatePaidDaysRequest struct {
	PaidDayIDs []models.TempDayID `json:"paid_day_ids"`
}

func (h *Handler) createSubscription(c *gin.Context) {
	var req service.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := h.subscriptionService.CreateSubscription(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *Handler) listSubscriptions(c *gin.Context) {
	studentID, err := strconv.ParseInt(c.Query("student_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "student_id query parameter is required"})
		return
	}

	subs, err := h.subscriptionService.GetSubscriptionsByStudentID(c.Request.Context(), studentID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if subs == nil {
		subs = []*models.Subscription{}
	}
	c.JSON(http.StatusOK, subs)
}

func (h *Handler) getSubscription(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	sub, err := h.subscriptionService.GetSubscription(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *Handler) deleteSubscription(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.subscriptionService.DeleteSubscription(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) allocatePaidDays(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req allocatePaidDaysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := h.subscriptionService.AllocatePaidDays(c.Request.Context(), id, req.PaidDayIDs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *Handler) subscriptionOccurrences(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	occurrences, err := h.subscriptionService.GetOccurrences(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if occurrences == nil {
		occurrences = []models.Occurrence{}
	}
	c.JSON(http.StatusOK, occurrences)
}
