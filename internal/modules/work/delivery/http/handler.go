package handler

import (
	"net/http"

	"anoa.com/dispatchhub/internal/modules/work/dto"
	workService "anoa.com/dispatchhub/internal/modules/work/service"
	"anoa.com/dispatchhub/pkg/apperror"
	"anoa.com/dispatchhub/pkg/response"
	"anoa.com/dispatchhub/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WorkHandler struct {
	workService workService.WorkService
}

func NewWorkHandler(workService workService.WorkService) *WorkHandler {
	return &WorkHandler{
		workService: workService,
	}
}

func (h *WorkHandler) ListWorks(c *gin.Context) {
	var q dto.ListWorksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": validator.FormatValidationError(err)})
		return
	}

	res, err := h.workService.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *WorkHandler) CreateWork(c *gin.Context) {
	var input dto.CreateWorkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": validator.FormatValidationError(err)})
		return
	}

	res, err := h.workService.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *WorkHandler) UpdateWork(c *gin.Context) {
	id, err := parseWorkID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input dto.UpdateWorkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": validator.FormatValidationError(err)})
		return
	}

	res, err := h.workService.Update(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *WorkHandler) DeleteWork(c *gin.Context) {
	id, err := parseWorkID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.workService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "work deleted"})
}

// SetWorkState handles PATCH /works/:id?state=checked|completed,
// triggered by the assigned driver.
func (h *WorkHandler) SetWorkState(c *gin.Context) {
	id, err := parseWorkID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	driverID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.workService.SetState(c.Request.Context(), driverID, id, c.Query("state"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *WorkHandler) ForceActivateWork(c *gin.Context) {
	id, err := parseWorkID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.workService.ForceActivate(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *WorkHandler) ForceCompleteWork(c *gin.Context) {
	id, err := parseWorkID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.workService.ForceComplete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// GetMyWorks returns the authenticated driver's operational feed.
func (h *WorkHandler) GetMyWorks(c *gin.Context) {
	driverID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.workService.Feed(c.Request.Context(), driverID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *WorkHandler) GetMyCompletedWorks(c *gin.Context) {
	driverID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var q dto.ListWorksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": validator.FormatValidationError(err)})
		return
	}

	res, err := h.workService.CompletedBetween(c.Request.Context(), driverID, q)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *WorkHandler) GetMyWorksAnalysis(c *gin.Context) {
	driverID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var q dto.AnalysisQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": validator.FormatValidationError(err)})
		return
	}

	res, err := h.workService.Analysis(c.Request.Context(), driverID, q.By)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// GetUserWorks returns a driver's uncompleted works for the contractor view.
func (h *WorkHandler) GetUserWorks(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.BadRequest("invalid user id"))
		return
	}

	res, err := h.workService.UncompletedForUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func parseWorkID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperror.BadRequest("invalid work id")
	}
	return id, nil
}
