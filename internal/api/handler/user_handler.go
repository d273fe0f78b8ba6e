package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/users-api/internal/core/policy"
	"github.com/99minutos/users-api/internal/core/ports"
)

// UserHandler handles HTTP requests for user records.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /users.
//
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  userListEnvelope
// @Failure      401  {object}  apierror.Body
// @Failure      403  {object}  apierror.Body
// @Failure      500  {object}  apierror.Body
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := authorize(policy.ActionList, identity, 0); err != nil {
		return err
	}

	users, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userListEnvelope{
		Message: "Users retrieved successfully",
		Users:   toUserListResponse(users),
		Count:   len(users),
	})
}

// Get handles GET /users/:id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  userEnvelope
// @Failure      400  {object}  apierror.Body
// @Failure      401  {object}  apierror.Body
// @Failure      404  {object}  apierror.Body
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := authorize(policy.ActionGet, identity, id); err != nil {
		return err
	}

	user, err := h.service.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userEnvelope{
		Message: "User retrieved successfully",
		User:    toUserResponse(user),
	})
}

// Update handles PUT /users/:id.
//
// @Summary      Update a user
// @Description  Users may update their own record; admins may update any record. Changing role requires admin.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int                true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change (at least one)"
// @Success      200   {object}  userEnvelope
// @Failure      400   {object}  apierror.Body
// @Failure      401   {object}  apierror.Body
// @Failure      403   {object}  apierror.Body
// @Failure      404   {object}  apierror.Body
// @Failure      409   {object}  apierror.Body
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	req.normalize()
	if err := c.Validate(&req); err != nil {
		return err
	}

	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := authorize(policy.ActionUpdate, identity, id, req.fields()...); err != nil {
		return err
	}

	user, err := h.service.Update(c.Request().Context(), identity, id, req.patch())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userEnvelope{
		Message: "User updated successfully",
		User:    toUserResponse(user),
	})
}

// Delete handles DELETE /users/:id.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  deletedUserEnvelope
// @Failure      400  {object}  apierror.Body
// @Failure      401  {object}  apierror.Body
// @Failure      403  {object}  apierror.Body
// @Failure      404  {object}  apierror.Body
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := authorize(policy.ActionDelete, identity, id); err != nil {
		return err
	}

	deleted, err := h.service.Delete(c.Request().Context(), identity, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, deletedUserEnvelope{
		Message: "User deleted successfully",
		User:    toDeletedUserResponse(deleted),
	})
}
