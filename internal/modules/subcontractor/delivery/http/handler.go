package handler

import (
	"net/http"

	"anoa.com/dispatchhub/internal/modules/subcontractor/dto"
	subService "anoa.com/dispatchhub/internal/modules/subcontractor/service"
	"anoa.com/dispatchhub/pkg/apperror"
	"anoa.com/dispatchhub/pkg/response"
	"anoa.com/dispatchhub/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SubcontractorHandler struct {
	service subService.SubcontractorService
}

func NewSubcontractorHandler(service subService.SubcontractorService) *SubcontractorHandler {
	return &SubcontractorHandler{
		service: service,
	}
}

func (h *SubcontractorHandler) ListSubcontractors(c *gin.Context) {
	res, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *SubcontractorHandler) CreateSubcontractor(c *gin.Context) {
	var input dto.CreateSubcontractorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": validator.FormatValidationError(err)})
		return
	}

	res, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *SubcontractorHandler) CreateContractor(c *gin.Context) {
	var input dto.CreateContractorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": validator.FormatValidationError(err)})
		return
	}

	res, err := h.service.CreateContractor(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *SubcontractorHandler) GetSubcontractor(c *gin.Context) {
	id, err := parseUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *SubcontractorHandler) UpdateSubcontractor(c *gin.Context) {
	id, err := parseUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input dto.UpdateSubcontractorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": validator.FormatValidationError(err)})
		return
	}

	res, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *SubcontractorHandler) DeleteSubcontractor(c *gin.Context) {
	id, err := parseUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func parseUserID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperror.BadRequest("invalid user id")
	}
	return id, nil
}
