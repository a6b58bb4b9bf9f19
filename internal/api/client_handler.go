package api

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/schedule"
	"alcyxob/fitness-coach/internal/service"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClientHandler serves the client's routine, workout logging and calendar endpoints.
type ClientHandler struct {
	assignmentService service.AssignmentService
	sessionService    service.SessionService
	calendarService   service.CalendarService
}

func NewClientHandler(
	assignmentService service.AssignmentService,
	sessionService service.SessionService,
	calendarService service.CalendarService,
) *ClientHandler {
	return &ClientHandler{
		assignmentService: assignmentService,
		sessionService:    sessionService,
		calendarService:   calendarService,
	}
}

type StartRoutineRequest struct {
	RoutineID        string          `json:"routineId" binding:"required"`
	PlanType         domain.PlanType `json:"planType" binding:"required,oneof=strict flexible"`
	StartDate        string          `json:"startDate,omitempty"` // YYYY-MM-DD, defaults to today
	TrainingWeekdays []int           `json:"trainingWeekdays,omitempty" binding:"omitempty,dive,min=0,max=6"`
}

type SkipDayRequest struct {
	Date string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
}

type LogSessionRequest struct {
	AssignmentID    string     `json:"assignmentId,omitempty"`
	RoutineDayID    string     `json:"routineDayId,omitempty"`
	Name            string     `json:"name,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	DurationMinutes int        `json:"durationMinutes,omitempty" binding:"min=0"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
}

// StartRoutine godoc
// @Summary Start following a routine
// @Tags Client
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body StartRoutineRequest true "Routine and plan type"
// @Success 201 {object} domain.RoutineAssignment
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Routine not found"
// @Failure 422 {object} gin.H "Routine has no days"
// @Router /client/assignments [post]
func (h *ClientHandler) StartRoutine(c *gin.Context) {
	var req StartRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	clientID, ok := userObjectID(c)
	if !ok {
		return
	}
	routineID, err := primitive.ObjectIDFromHex(req.RoutineID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid routineId format.")
		return
	}
	startDate, ok := parseDateField(c, "startDate", req.StartDate)
	if !ok {
		return
	}

	input := service.StartAssignmentInput{
		RoutineID: routineID,
		PlanType:  req.PlanType,
		StartDate: startDate,
	}
	for _, wd := range req.TrainingWeekdays {
		input.TrainingWeekdays = append(input.TrainingWeekdays, time.Weekday(wd))
	}

	assignment, err := h.assignmentService.Start(c.Request.Context(), clientID, input)
	if err != nil {
		h.handleServiceError(c, err, "Failed to start routine.")
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

// StopRoutine godoc
// @Summary Stop following a routine
// @Tags Client
// @Security BearerAuth
// @Param assignmentId path string true "Assignment ID"
// @Success 204
// @Failure 403 {object} gin.H "Assignment belongs to another client"
// @Failure 404 {object} gin.H "Assignment not found"
// @Router /client/assignments/{assignmentId} [delete]
func (h *ClientHandler) StopRoutine(c *gin.Context) {
	clientID, ok := userObjectID(c)
	if !ok {
		return
	}
	assignmentID, ok := pathObjectID(c, "assignmentId")
	if !ok {
		return
	}

	if err := h.assignmentService.Stop(c.Request.Context(), clientID, assignmentID); err != nil {
		h.handleServiceError(c, err, "Failed to stop routine.")
		return
	}
	c.Status(http.StatusNoContent)
}

// SkipDay godoc
// @Summary Mark a calendar day of an assignment as skipped
// @Tags Client
// @Accept json
// @Security BearerAuth
// @Param assignmentId path string true "Assignment ID"
// @Param request body SkipDayRequest false "Day to skip"
// @Success 204
// @Failure 409 {object} gin.H "Assignment is no longer active"
// @Router /client/assignments/{assignmentId}/skip [post]
func (h *ClientHandler) SkipDay(c *gin.Context) {
	var req SkipDayRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
			return
		}
	}
	clientID, ok := userObjectID(c)
	if !ok {
		return
	}
	assignmentID, ok := pathObjectID(c, "assignmentId")
	if !ok {
		return
	}
	date, ok := parseDateField(c, "date", req.Date)
	if !ok {
		return
	}

	if err := h.assignmentService.Skip(c.Request.Context(), clientID, assignmentID, date); err != nil {
		h.handleServiceError(c, err, "Failed to skip day.")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetNextWorkout godoc
// @Summary Get the routine day to train next
// @Tags Client
// @Produce json
// @Security BearerAuth
// @Param assignmentId path string true "Assignment ID"
// @Success 200 {object} service.NextWorkout
// @Router /client/assignments/{assignmentId}/next [get]
func (h *ClientHandler) GetNextWorkout(c *gin.Context) {
	clientID, ok := userObjectID(c)
	if !ok {
		return
	}
	assignmentID, ok := pathObjectID(c, "assignmentId")
	if !ok {
		return
	}

	next, err := h.assignmentService.NextWorkout(c.Request.Context(), clientID, assignmentID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to load next workout.")
		return
	}
	c.JSON(http.StatusOK, next)
}

// LogSession godoc
// @Summary Save a completed workout session
// @Description Sessions linked to a flexible assignment advance it to the next routine day.
// @Tags Client
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param session body LogSessionRequest true "Session details"
// @Success 201 {object} domain.WorkoutSession
// @Router /client/sessions [post]
func (h *ClientHandler) LogSession(c *gin.Context) {
	var req LogSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	clientID, ok := userObjectID(c)
	if !ok {
		return
	}

	input := service.SaveSessionInput{
		Name:            req.Name,
		Notes:           req.Notes,
		DurationMinutes: req.DurationMinutes,
	}
	if req.CompletedAt != nil {
		input.CompletedAt = *req.CompletedAt
	}
	if req.AssignmentID != "" {
		id, err := primitive.ObjectIDFromHex(req.AssignmentID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid assignmentId format.")
			return
		}
		input.AssignmentID = &id
	}
	if req.RoutineDayID != "" {
		id, err := primitive.ObjectIDFromHex(req.RoutineDayID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid routineDayId format.")
			return
		}
		input.RoutineDayID = &id
	}

	session, err := h.sessionService.SaveSession(c.Request.Context(), clientID, input)
	if err != nil {
		h.handleServiceError(c, err, "Failed to save workout session.")
		return
	}
	c.JSON(http.StatusCreated, session)
}

// GetCalendar godoc
// @Summary Get the week view of the client's active routines
// @Tags Client
// @Produce json
// @Security BearerAuth
// @Param date query string false "Any date of the week (YYYY-MM-DD), defaults to today"
// @Success 200 {object} schedule.Week
// @Router /client/calendar [get]
func (h *ClientHandler) GetCalendar(c *gin.Context) {
	clientID, ok := userObjectID(c)
	if !ok {
		return
	}
	pivot, ok := parseDateField(c, "date", c.Query("date"))
	if !ok {
		return
	}

	week, err := h.calendarService.GetWeek(c.Request.Context(), clientID, pivot)
	if err != nil {
		h.handleServiceError(c, err, "Failed to load calendar.")
		return
	}
	c.JSON(http.StatusOK, week)
}

func (h *ClientHandler) handleServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound), errors.Is(err, service.ErrRoutineNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAssignmentNotOwned):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrAssignmentInactive):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidPlanType), errors.Is(err, service.ErrInvalidWeekday):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrRoutineEmpty):
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		log.WithField("path", c.FullPath()).Errorf("client request: %s", err)
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

// parseDateField parses an optional YYYY-MM-DD value. Empty yields the zero time.
func parseDateField(c *gin.Context, field, value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, true
	}
	date, err := time.Parse(schedule.DateLayout, value)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid "+field+", expected YYYY-MM-DD.")
		return time.Time{}, false
	}
	return date, true
}
