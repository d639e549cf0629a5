package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/socialnet/friends-api/internal/api/metrics"
	"github.com/socialnet/friends-api/internal/core/domain"
	"github.com/socialnet/friends-api/internal/core/ports"
)

// FriendHandler handles the friend-request lifecycle endpoints.
type FriendHandler struct {
	friendService ports.FriendService
}

func NewFriendHandler(friendService ports.FriendService) *FriendHandler {
	return &FriendHandler{friendService: friendService}
}

type friendRequestResponse struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Receiver  string    `json:"receiver"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Send handles POST /friend-request/send/:to_user_id/.
//
// @Summary      Send a friend request
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        to_user_id  path      string  true  "Receiver user id"
// @Success      201         {object}  messageResponse
// @Failure      400         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Router       /friend-request/send/{to_user_id}/ [post]
func (h *FriendHandler) Send(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	_, err = h.friendService.SendRequest(c.Request().Context(), userID, c.Param("to_user_id"))
	if err != nil {
		metrics.RequestsRejectedTotal.WithLabelValues(sendRejectReason(err)).Inc()
		return err
	}

	metrics.RequestsSentTotal.Inc()
	return c.JSON(http.StatusCreated, messageResponse{Message: "Friend request sent"})
}

// Respond handles POST /friend-request/respond/:request_id/:action/.
//
// @Summary      Accept or reject a friend request
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        request_id  path      string  true  "Friend request id"
// @Param        action      path      string  true  "accept or reject"
// @Success      200         {object}  messageResponse
// @Failure      400         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Router       /friend-request/respond/{request_id}/{action}/ [post]
func (h *FriendHandler) Respond(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	action := c.Param("action")
	_, err = h.friendService.Respond(c.Request().Context(), userID, c.Param("request_id"), action)
	if err != nil {
		return err
	}

	metrics.ResponsesTotal.WithLabelValues(action).Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: fmt.Sprintf("Friend request %sed", action)})
}

// Friends handles GET /friends/.
//
// @Summary      List accepted friends
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Success      204  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /friends/ [get]
func (h *FriendHandler) Friends(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	friends, err := h.friendService.ListFriends(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	if len(friends) == 0 {
		// net/http strips the body on 204 at the transport level; the message
		// is visible to in-process callers only.
		return c.JSON(http.StatusNoContent, messageResponse{Message: "You have no friends"})
	}

	results := make([]userResponse, 0, len(friends))
	for _, u := range friends {
		results = append(results, toUserResponse(u))
	}
	return c.JSON(http.StatusOK, results)
}

// Pending handles GET /friend-requests/pending/.
//
// @Summary      List pending friend requests received
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   friendRequestResponse
// @Success      204  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /friend-requests/pending/ [get]
func (h *FriendHandler) Pending(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	pending, err := h.friendService.ListPending(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return c.JSON(http.StatusNoContent, messageResponse{Message: "You have no pending friend requests"})
	}

	results := make([]friendRequestResponse, 0, len(pending))
	for _, r := range pending {
		results = append(results, friendRequestResponse{
			ID:        r.ID,
			Sender:    r.SenderID,
			Receiver:  r.ReceiverID,
			Status:    string(r.Status),
			Timestamp: r.Timestamp,
		})
	}
	return c.JSON(http.StatusOK, results)
}

func sendRejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrSelfRequest):
		return "self"
	case errors.Is(err, domain.ErrDuplicateRequest):
		return "duplicate"
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, domain.ErrUserNotFound):
		return "receiver_not_found"
	default:
		return "error"
	}
}
