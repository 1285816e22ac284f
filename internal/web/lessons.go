package web

import (
	"net/http"
	"time"

	"tutor-desk/internal/models"
	"tutor-desk/internal/service"

	"github.com/gin-gonic/gin"
)

type lessonsQuery struct {
	From      string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To        string `form:"to" validate:"omitempty,datetime=2006-01-02"`
	StudentID int64  `form:"student_id" validate:"omitempty,gt=0"`
}

// filter turns the query into a half-open range; "to" is an inclusive date.
func (q lessonsQuery) filter() models.LessonFilter {
	var filter models.LessonFilter
	if q.From != "" {
		from, _ := time.Parse(time.DateOnly, q.From)
		filter.From = &from
	}
	if q.To != "" {
		to, _ := time.Parse(time.DateOnly, q.To)
		to = to.AddDate(0, 0, 1)
		filter.To = &to
	}
	if q.StudentID > 0 {
		filter.StudentID = &q.StudentID
	}
	return filter
}

func (h *Handler) createBulkLessons(c *gin.Context) {
	var req service.BulkLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.validate.Var(req.Time, "required,clock"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "time: must be in HH:MM format"})
		return
	}

	result, err := h.lessonService.CreateBulk(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) previewLessons(c *gin.Context) {
	var req service.RecurrenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.validate.Var(req.Time, "required,clock"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "time: must be in HH:MM format"})
		return
	}

	result, err := h.lessonService.Preview(req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) listLessons(c *gin.Context) {
	var q lessonsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.validate.Struct(q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lessons, err := h.lessonService.GetLessons(c.Request.Context(), q.filter())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if lessons == nil {
		lessons = []models.Lesson{}
	}
	c.JSON(http.StatusOK, lessons)
}
