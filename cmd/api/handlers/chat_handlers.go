package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"research-chat/cmd/api/dto"
	"research-chat/cmd/api/middleware"
	"research-chat/cmd/api/services"
)

// ChatStateHandler godoc
// @Summary      현재 채팅 상태 조회
// @Description  활성 세션의 대화 내역과 로딩 상태(문서 검색/분석)를 반환한다.
// @Tags         chat
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.ChatStateDTO
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Router       /chat/state [get]
func ChatStateHandler(chatSvc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		state, apiErr := chatSvc.State(middleware.UserID(c))
		if apiErr != nil {
			c.JSON(apiErr.StatusCode, dto.ErrorResponseDTO{Error: apiErr.ErrorCode})
			return
		}
		c.JSON(http.StatusOK, state)
	}
}

// ChatStreamHandler godoc
// @Summary      채팅 상태 스트림 (SSE)
// @Description  상태가 바뀔 때마다 최신 스냅샷을 "state" 이벤트로 보낸다. 중간 스냅샷은 건너뛸 수 있다.
// @Tags         chat
// @Security     BearerAuth
// @Produce      text/event-stream
// @Success      200  {object}  dto.ChatStateDTO
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Router       /chat/stream [get]
func ChatStreamHandler(chatSvc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		states, cancel, apiErr := chatSvc.Subscribe(middleware.UserID(c))
		if apiErr != nil {
			c.JSON(apiErr.StatusCode, dto.ErrorResponseDTO{Error: apiErr.ErrorCode})
			return
		}
		defer cancel()

		c.Header("Cache-Control", "no-cache")
		c.Header("X-Accel-Buffering", "no")
		ctx := c.Request.Context()
		c.Stream(func(w io.Writer) bool {
			select {
			case <-ctx.Done():
				return false
			case s, ok := <-states:
				if !ok {
					return false
				}
				c.SSEvent("state", services.ToChatStateDTO(s))
				return true
			}
		})
	}
}

// SubmitMessageHandler godoc
// @Summary      질의 제출
// @Description  문서 검색 후 분석을 실행한다. 활성 세션이 없으면 새 세션을 만든다.
// @Description  검색/분석 실패는 대화 내역의 에러 메시지로 남고 200 으로 응답한다.
// @Tags         chat
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SubmitMessageRequestDTO  true  "submit request"
// @Success      200   {object}  dto.SubmitMessageResponseDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      401   {object}  dto.ErrorResponseDTO
// @Failure      404   {object}  dto.ErrorResponseDTO  "템플릿 없음"
// @Failure      409   {object}  dto.ErrorResponseDTO  "이미 처리 중인 질의가 있음"
// @Failure      500   {object}  dto.ErrorResponseDTO
// @Router       /chat/messages [post]
func SubmitMessageHandler(chatSvc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.SubmitMessageRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request"})
			return
		}

		// 클라이언트가 끊겨도 진행 중인 제출은 끝까지 저장한다.
		ctx := context.WithoutCancel(c.Request.Context())
		resp, apiErr := chatSvc.Submit(ctx, middleware.UserID(c), req)
		if apiErr != nil {
			c.JSON(apiErr.StatusCode, dto.ErrorResponseDTO{Error: apiErr.ErrorCode})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// SelectSessionHandler godoc
// @Summary      세션 전환
// @Description  저장된 세션을 활성화한다. session_id 가 null 이면 새 세션을 시작한다.
// @Tags         chat
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SelectSessionRequestDTO  true  "select request"
// @Success      200   {object}  dto.SelectSessionResponseDTO
// @Failure      404   {object}  dto.ErrorResponseDTO
// @Failure      409   {object}  dto.ErrorResponseDTO
// @Router       /chat/select [post]
func SelectSessionHandler(chatSvc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.SelectSessionRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request"})
			return
		}

		resp, apiErr := chatSvc.Select(c.Request.Context(), middleware.UserID(c), req.SessionID)
		if apiErr != nil {
			c.JSON(apiErr.StatusCode, dto.ErrorResponseDTO{Error: apiErr.ErrorCode})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// SampleCaseHandler godoc
// @Summary      예시 케이스 생성
// @Description  입력창을 채울 예시 임상 케이스 텍스트를 생성한다. 채팅 상태는 바뀌지 않는다.
// @Tags         chat
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.SampleCaseResponseDTO
// @Failure      503  {object}  dto.ErrorResponseDTO
// @Router       /chat/sample-case [post]
func SampleCaseHandler(chatSvc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, apiErr := chatSvc.SampleCase(c.Request.Context(), middleware.UserID(c))
		if apiErr != nil {
			c.JSON(apiErr.StatusCode, dto.ErrorResponseDTO{Error: apiErr.ErrorCode})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}
