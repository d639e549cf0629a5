package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/socialnet/friends-api/internal/api/metrics"
	"github.com/socialnet/friends-api/internal/core/domain"
	"github.com/socialnet/friends-api/internal/core/ports"
)

// UserHandler handles directory endpoints.
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// paginatedResponse is the pagination envelope: absolute-path links to the
// next/previous pages, or null at either end.
type paginatedResponse struct {
	Next     *string        `json:"next"`
	Previous *string        `json:"previous"`
	Results  []userResponse `json:"results"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Search handles GET /search/?keyword=&page=&page_size=.
//
// @Summary      Search users by keyword
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        keyword    query     string  false  "Matched against email (exact or substring) and name"
// @Param        page       query     int     false  "1-based page number"
// @Param        page_size  query     int     false  "Page size (default 10, max 100)"
// @Success      200        {object}  paginatedResponse
// @Failure      401        {object}  errorResponse
// @Failure      404        {object}  messageResponse
// @Router       /search/ [get]
func (h *UserHandler) Search(c echo.Context) error {
	if _, err := ctxUserID(c); err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	result, err := h.userService.Search(c.Request().Context(), ports.SearchUsersInput{
		Keyword:  c.QueryParam("keyword"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNoSearchResults) {
			metrics.SearchesTotal.WithLabelValues("miss").Inc()
			return c.JSON(http.StatusNotFound, messageResponse{Message: "No results found."})
		}
		return err
	}

	metrics.SearchesTotal.WithLabelValues("hit").Inc()

	results := make([]userResponse, 0, len(result.Items))
	for _, u := range result.Items {
		results = append(results, toUserResponse(u))
	}

	return c.JSON(http.StatusOK, paginatedResponse{
		Next:     pageLink(c, result.Page+1, result.PageSize, int64(result.Page)*int64(result.PageSize) < result.Total),
		Previous: pageLink(c, result.Page-1, result.PageSize, result.Page > 1),
		Results:  results,
	})
}

// pageLink rebuilds the request URL pointing at the given page, or returns nil
// when the page does not exist.
func pageLink(c echo.Context, page, pageSize int, exists bool) *string {
	if !exists {
		return nil
	}
	u := *c.Request().URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	u.RawQuery = q.Encode()
	link := u.String()
	return &link
}
