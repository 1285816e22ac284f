package web

import (
	"errors"
	"net/http"
	"strconv"

	"tutor-desk/internal/service"
	schedule_service "tutor-desk/internal/service/schedule"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type Handler struct {
	subscriptionService service.SubscriptionService
	lessonService       service.LessonService
	validate            *validator.Validate
	log                 *zap.Logger
}

func NewHandler(
	subscriptionService service.SubscriptionService,
	lessonService service.LessonService,
	log *zap.Logger,
) *Handler {
	return &Handler{
		subscriptionService: subscriptionService,
		lessonService:       lessonService,
		validate:            newValidator(),
		log:                 log.Named("web"),
	}
}

// NewRouter builds the gin engine with the API routes and request logging.
func NewRouter(h *Handler, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log.Named("http")))
	h.RegisterRoutes(router)
	return router
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")

	subs := api.Group("/subscriptions")
	subs.POST("", h.createSubscription)
	subs.GET("", h.listSubscriptions)
	subs.GET("/:id", h.getSubscription)
	subs.DELETE("/:id", h.deleteSubscription)
	subs.POST("/:id/paid-days", h.allocatePaidDays)
	subs.GET("/:id/occurrences", h.subscriptionOccurrences)

	lessons := api.Group("/lessons")
	lessons.POST("/bulk", h.createBulkLessons)
	lessons.POST("/preview", h.previewLessons)
	lessons.GET("", h.listLessons)
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for an empty tag or a nil func.
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := schedule_service.ParseClock(fl.Field().String())
		return err == nil
	})
	return v
}

// respondError maps service errors onto status codes. Internal failures are
// logged and reported without detail.
func (h *Handler) respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case service.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
