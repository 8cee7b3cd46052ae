package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"research-chat/cmd/api/dto"
	"research-chat/cmd/api/services"
)

// ListTemplatesHandler godoc
// @Summary      분석 템플릿 목록
// @Tags         templates
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.ListTemplatesResponseDTO
// @Router       /templates [get]
func ListTemplatesHandler(tmplSvc *services.TemplateService) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, apiErr := tmplSvc.List(c.Request.Context())
		if apiErr != nil {
			c.JSON(apiErr.StatusCode, dto.ErrorResponseDTO{Error: apiErr.ErrorCode})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// CreateTemplateHandler godoc
// @Summary      분석 템플릿 생성
// @Description  이름과 내용은 공백일 수 없고, 이름은 대소문자 구분 없이 유일해야 한다.
// @Tags         templates
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SaveTemplateRequestDTO  true  "template"
// @Success      201   {object}  dto.TemplateDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      409   {object}  dto.ErrorResponseDTO
// @Router       /templates [post]
func CreateTemplateHandler(tmplSvc *services.TemplateService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.SaveTemplateRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request"})
			return
		}

		resp, apiErr := tmplSvc.Save(c.Request.Context(), "", req)
		if apiErr != nil {
			c.JSON(apiErr.StatusCode, dto.ErrorResponseDTO{Error: apiErr.ErrorCode})
			return
		}
		c.JSON(http.StatusCreated, resp)
	}
}

// UpdateTemplateHandler godoc
// @Summary      분석 템플릿 수정
// @Tags         templates
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      string                      true  "템플릿 ID"
// @Param        body  body      dto.SaveTemplateRequestDTO  true  "template"
// @Success      200   {object}  dto.TemplateDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      404   {object}  dto.ErrorResponseDTO
// @Router       /templates/{id} [put]
func UpdateTemplateHandler(tmplSvc *services.TemplateService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.SaveTemplateRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request"})
			return
		}

		resp, apiErr := tmplSvc.Save(c.Request.Context(), c.Param("id"), req)
		if apiErr != nil {
			c.JSON(apiErr.StatusCode, dto.ErrorResponseDTO{Error: apiErr.ErrorCode})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// DeleteTemplateHandler godoc
// @Summary      분석 템플릿 삭제
// @Tags         templates
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "템플릿 ID"
// @Success      200  {object}  dto.MessageResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /templates/{id} [delete]
func DeleteTemplateHandler(tmplSvc *services.TemplateService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiErr := tmplSvc.Delete(c.Request.Context(), c.Param("id")); apiErr != nil {
			c.JSON(apiErr.StatusCode, dto.ErrorResponseDTO{Error: apiErr.ErrorCode})
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponseDTO{Message: "deleted"})
	}
}
