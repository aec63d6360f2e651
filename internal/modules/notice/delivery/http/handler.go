package handler

import (
	"net/http"

	"anoa.com/dispatchhub/internal/modules/notice/dto"
	noticeService "anoa.com/dispatchhub/internal/modules/notice/service"
	"anoa.com/dispatchhub/pkg/apperror"
	"anoa.com/dispatchhub/pkg/response"
	"anoa.com/dispatchhub/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type NoticeHandler struct {
	noticeService noticeService.NoticeService
	redisClient   *redis.Client
	upgrader      websocket.Upgrader
}

func NewNoticeHandler(service noticeService.NoticeService, redisClient *redis.Client) *NoticeHandler {
	return &NoticeHandler{
		noticeService: service,
		redisClient:   redisClient,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *NoticeHandler) ListNotices(c *gin.Context) {
	var q dto.ListNoticesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": validator.FormatValidationError(err)})
		return
	}

	res, err := h.noticeService.ListForAdmin(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *NoticeHandler) CreateNotice(c *gin.Context) {
	authorID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input dto.CreateNoticeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": validator.FormatValidationError(err)})
		return
	}

	notice, err := h.noticeService.Create(c.Request.Context(), authorID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, notice)
}

// ListActiveNotices returns notices in their visible window today, with the
// requesting driver's confirmation state on each.
func (h *NoticeHandler) ListActiveNotices(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.noticeService.ListActiveForUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *NoticeHandler) GetNotice(c *gin.Context) {
	id, err := parseNoticeID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	notice, err := h.noticeService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, notice)
}

func (h *NoticeHandler) UpdateNotice(c *gin.Context) {
	id, err := parseNoticeID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input dto.UpdateNoticeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": validator.FormatValidationError(err)})
		return
	}

	notice, err := h.noticeService.Update(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, notice)
}

func (h *NoticeHandler) DeleteNotice(c *gin.Context) {
	id, err := parseNoticeID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	notice, err := h.noticeService.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, notice)
}

// ConfirmNotice acknowledges a notice for the requesting driver. A repeat
// confirmation answers 200 with the original row; a first one answers 201.
func (h *NoticeHandler) ConfirmNotice(c *gin.Context) {
	id, err := parseNoticeID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	confirmation, created, err := h.noticeService.Confirm(c.Request.Context(), id, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if !created {
		c.JSON(http.StatusOK, dto.ConfirmNoticeResponse{
			Message:      "notice already confirmed",
			Confirmation: confirmation,
		})
		return
	}

	c.JSON(http.StatusCreated, dto.ConfirmNoticeResponse{
		Message:      "notice confirmed",
		Confirmation: confirmation,
	})
}

// HandleWebSocket streams freshly posted notices to the connected client by
// bridging the Redis broadcast channel onto the socket.
func (h *NoticeHandler) HandleWebSocket(c *gin.Context) {
	if h.redisClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "live notices are not available"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	pubsub := h.redisClient.Subscribe(c.Request.Context(), noticeService.BroadcastChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(c.Request.Context()); err != nil {
		log.Error().Err(err).Msg("redis subscription failed")
		return
	}

	ch := pubsub.Channel()

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg := <-ch:
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return
			}
		case <-clientClosed:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}

func parseNoticeID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperror.BadRequest("invalid notice id")
	}
	return id, nil
}
