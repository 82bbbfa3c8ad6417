package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/amref/learning-api/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe applies profile changes to the authenticated user.
//
// @Summary      Update current user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users/me [put]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := h.userService.UpdateProfile(c.Request().Context(), user.ID, req.toPort())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// List returns a page of users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        skip   query     int  false  "Records to skip"
// @Param        limit  query     int  false  "Page size (max 100)"
// @Success      200    {object}  listUsersResponse
// @Failure      401    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	var q listUsersQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	users, err := h.userService.List(c.Request().Context(), q.Skip, q.Limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listUsersResponse{Items: users, Skip: q.Skip, Count: len(users)})
}

// Get returns a single user by id.
//
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.userService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update changes any user's profile, role or active flag.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "User id"
// @Param        body  body      adminUpdateRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req adminUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := h.userService.AdminUpdate(c.Request().Context(), c.Param("id"), req.toPort())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}
