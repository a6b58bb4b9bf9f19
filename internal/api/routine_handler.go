package api

import (
	"alcyxob/fitness-coach/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type RoutineHandler struct {
	routineService service.RoutineService
}

func NewRoutineHandler(routineService service.RoutineService) *RoutineHandler {
	return &RoutineHandler{routineService: routineService}
}

type ImportRoutineRequest struct {
	Text string `json:"text" binding:"required"`
}

// ImportRoutine godoc
// @Summary Import a routine from coach-generated text
// @Description Parses "Day N" sections and their exercise lines into a stored routine.
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param routine body ImportRoutineRequest true "Routine text"
// @Success 201 {object} service.RoutineDetails
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 422 {object} gin.H "No workout days found in the text"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/routines/import [post]
func (h *RoutineHandler) ImportRoutine(c *gin.Context) {
	var req ImportRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainerID, ok := userObjectID(c)
	if !ok {
		return
	}

	details, err := h.routineService.ImportFromText(c.Request.Context(), trainerID, req.Text)
	if err != nil {
		if errors.Is(err, service.ErrRoutineNotParsed) {
			abortWithError(c, http.StatusUnprocessableEntity, err.Error())
			return
		}
		log.WithField("trainerId", trainerID.Hex()).Errorf("import routine: %s", err)
		abortWithError(c, http.StatusInternalServerError, "Failed to save the imported routine.")
		return
	}

	c.JSON(http.StatusCreated, details)
}

// GetRoutine godoc
// @Summary Get one of the trainer's routines with its days and exercises
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param routineId path string true "Routine ID"
// @Success 200 {object} service.RoutineDetails
// @Failure 400 {object} gin.H "Invalid routine ID"
// @Failure 403 {object} gin.H "Routine belongs to another trainer"
// @Failure 404 {object} gin.H "Routine not found"
// @Router /trainer/routines/{routineId} [get]
func (h *RoutineHandler) GetRoutine(c *gin.Context) {
	trainerID, ok := userObjectID(c)
	if !ok {
		return
	}
	routineID, ok := pathObjectID(c, "routineId")
	if !ok {
		return
	}

	details, err := h.routineService.GetRoutine(c.Request.Context(), trainerID, routineID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoutineNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrRoutineAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			log.WithField("routineId", routineID.Hex()).Errorf("get routine: %s", err)
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve routine.")
		}
		return
	}

	c.JSON(http.StatusOK, details)
}
