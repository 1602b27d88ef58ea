package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"lifecycle-service/internal/lifecycle"
	"lifecycle-service/internal/models"
	"lifecycle-service/internal/service"
	"lifecycle-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	bookings  *service.BookingLifecycle
	trainings *service.TrainingLifecycle
	orders    *service.OrderIntake
	tracking  *service.TrackingResolver
}

// NewHandler creates a new HTTP handler
func NewHandler(
	bookings *service.BookingLifecycle,
	trainings *service.TrainingLifecycle,
	orders *service.OrderIntake,
	tracking *service.TrackingResolver,
) *Handler {
	return &Handler{
		bookings:  bookings,
		trainings: trainings,
		orders:    orders,
		tracking:  tracking,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/bookings", h.createBooking)
		v1.GET("/bookings/:id", h.getBooking)
		v1.GET("/customers/:id/bookings", h.listCustomerBookings)

		v1.POST("/orders", h.createOrder)
		v1.GET("/orders/:id", h.getOrder)

		v1.POST("/trainings", h.enrollTraining)
		v1.GET("/trainings/:id", h.getTraining)
		v1.GET("/students/:id/trainings", h.listStudentTrainings)

		v1.GET("/tracking/:code", h.resolveTracking)
	}

	// Role checks happen upstream in the gateway; these routes trust the
	// caller is an admin.
	admin := router.Group("/api/v1/admin")
	{
		admin.PATCH("/bookings/:id/status", h.transitionBooking)
		admin.PATCH("/bookings/:id/assignee", h.assignBooking)
		admin.POST("/bookings/:id/notes", h.appendBookingNote)
		admin.POST("/bookings/:id/photos", h.appendBookingPhotos)

		admin.PATCH("/trainings/:id/status", h.transitionTraining)
		admin.POST("/trainings/:id/certificate", h.issueCertificate)
		admin.PATCH("/trainings/:id/instructor", h.assignInstructor)
		admin.POST("/trainings/:id/payments", h.recordTrainingPayment)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) createBooking(c *gin.Context) {
	var req service.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	booking, err := h.bookings.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

func (h *Handler) getBooking(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	booking, err := h.bookings.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

func (h *Handler) listCustomerBookings(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	bookings, err := h.bookings.ListByCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

type transitionRequest struct {
	Status string                 `json:"status" binding:"required"`
	Meta   service.TransitionMeta `json:"meta"`
}

func (h *Handler) transitionBooking(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	booking, err := h.bookings.Transition(c.Request.Context(), id, models.BookingStatus(req.Status), req.Meta)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

type assignRequest struct {
	AssigneeID *uuid.UUID `json:"assignee_id"`
}

func (h *Handler) assignBooking(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	booking, err := h.bookings.Assign(c.Request.Context(), id, req.AssigneeID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

type noteRequest struct {
	Note string `json:"note" binding:"required"`
}

func (h *Handler) appendBookingNote(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	booking, err := h.bookings.AppendNote(c.Request.Context(), id, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

type photosRequest struct {
	Photos []string `json:"photos" binding:"required,min=1"`
}

func (h *Handler) appendBookingPhotos(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req photosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	booking, err := h.bookings.AppendPhotos(c.Request.Context(), id, req.Photos)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

func (h *Handler) createOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": order})
}

func (h *Handler) getOrder(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	order, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *Handler) enrollTraining(c *gin.Context) {
	var req service.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	training, err := h.trainings.Enroll(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"training": training})
}

func (h *Handler) getTraining(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	training, err := h.trainings.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"training": training})
}

func (h *Handler) listStudentTrainings(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	trainings, err := h.trainings.ListByStudent(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trainings": trainings})
}

func (h *Handler) transitionTraining(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	training, err := h.trainings.Transition(c.Request.Context(), id, models.TrainingStatus(req.Status), req.Meta)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"training": training})
}

type certificateRequest struct {
	Notes string `json:"notes"`
}

func (h *Handler) issueCertificate(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req certificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	training, err := h.trainings.IssueCertificate(c.Request.Context(), id, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"training": training})
}

type instructorRequest struct {
	InstructorID *uuid.UUID `json:"instructor_id"`
}

func (h *Handler) assignInstructor(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req instructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	training, err := h.trainings.AssignInstructor(c.Request.Context(), id, req.InstructorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"training": training})
}

type paymentRequest struct {
	Amount int64 `json:"amount" binding:"required,min=1"`
}

func (h *Handler) recordTrainingPayment(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	training, err := h.trainings.RecordPayment(c.Request.Context(), id, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"training": training})
}

func (h *Handler) resolveTracking(c *gin.Context) {
	code := c.Param("code")

	result, err := h.tracking.Resolve(c.Request.Context(), code)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps domain errors to HTTP responses. Invalid transitions
// include the current status and its reachable set so callers can
// self-correct without re-querying.
func respondError(c *gin.Context, err error) {
	var invalidTransition *lifecycle.InvalidTransitionError
	var invalidMetadata *lifecycle.InvalidMetadataError

	switch {
	case errors.Is(err, lifecycle.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})

	case errors.As(err, &invalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":            "Invalid transition",
			"kind":             invalidTransition.Kind,
			"current_status":   invalidTransition.From,
			"requested_status": invalidTransition.To,
			"allowed_statuses": invalidTransition.Allowed,
		})

	case errors.As(err, &invalidMetadata):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid metadata",
			"field":   invalidMetadata.Field,
			"details": invalidMetadata.Reason,
		})

	case errors.Is(err, lifecycle.ErrNotCompleted):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Not completed",
			"details": "certificates can only be issued for completed trainings",
		})

	case errors.Is(err, lifecycle.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Conflict",
			"details": "entity was modified concurrently, re-fetch and retry",
		})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal error",
			"details": err.Error(),
		})
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
