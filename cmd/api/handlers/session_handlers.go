package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"research-chat/cmd/api/dto"
	"research-chat/cmd/api/middleware"
	"research-chat/cmd/api/services"
)

// ListSessionsHandler godoc
// @Summary      대화 세션 목록 조회
// @Description  사용자의 대화 세션 목록을 최신순으로 조회한다. 메시지는 포함하지 않는다.
// @Tags         sessions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.ListSessionsResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /sessions [get]
func ListSessionsHandler(chatSvc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, apiErr := chatSvc.ListSessions(c.Request.Context(), middleware.UserID(c))
		if apiErr != nil {
			c.JSON(apiErr.StatusCode, dto.ErrorResponseDTO{Error: apiErr.ErrorCode})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// CreateSessionHandler godoc
// @Summary      대화 세션 생성
// @Description  환영 메시지만 담긴 세션을 만든다. (UI에서 '+ 새 채팅' 버튼 클릭 시)
// @Tags         sessions
// @Security     BearerAuth
// @Produce      json
// @Success      201  {object}  dto.CreateSessionResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /sessions [post]
func CreateSessionHandler(chatSvc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, apiErr := chatSvc.CreateSession(c.Request.Context(), middleware.UserID(c))
		if apiErr != nil {
			c.JSON(apiErr.StatusCode, dto.ErrorResponseDTO{Error: apiErr.ErrorCode})
			return
		}
		c.JSON(http.StatusCreated, resp)
	}
}

// RenameSessionHandler godoc
// @Summary      대화 세션 이름 변경
// @Tags         sessions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      string                       true  "세션 ID"
// @Param        body  body      dto.RenameSessionRequestDTO  true  "rename request"
// @Success      200   {object}  dto.MessageResponseDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      404   {object}  dto.ErrorResponseDTO
// @Router       /sessions/{id} [patch]
func RenameSessionHandler(chatSvc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.RenameSessionRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request"})
			return
		}

		if apiErr := chatSvc.RenameSession(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Title); apiErr != nil {
			c.JSON(apiErr.StatusCode, dto.ErrorResponseDTO{Error: apiErr.ErrorCode})
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponseDTO{Message: "renamed"})
	}
}

// DeleteSessionHandler godoc
// @Summary      대화 세션 삭제
// @Description  세션을 삭제한다. 활성 세션이면 다음 질의 때 새 세션이 만들어진다.
// @Tags         sessions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "세션 ID"
// @Success      200  {object}  dto.MessageResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      409  {object}  dto.ErrorResponseDTO  "처리 중인 활성 세션"
// @Router       /sessions/{id} [delete]
func DeleteSessionHandler(chatSvc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiErr := chatSvc.DeleteSession(c.Request.Context(), middleware.UserID(c), c.Param("id")); apiErr != nil {
			c.JSON(apiErr.StatusCode, dto.ErrorResponseDTO{Error: apiErr.ErrorCode})
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponseDTO{Message: "deleted"})
	}
}
