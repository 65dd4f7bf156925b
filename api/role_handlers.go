package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"moodiary/models"
)

// List roles
// (GET /roles)
func (impl *ServerImpl) GetRoles(c *gin.Context) {
	const op = "GetRoles"
	roles, err := impl.roles.List(c.Request.Context())
	if err != nil {
		writeError(c, op, err)
		return
	}
	c.JSON(http.StatusOK, DataResponse[[]RoleResponse]{
		Data: lo.Map(roles, func(role models.Role, _ int) RoleResponse {
			return toRoleResponse(role)
		}),
		Message: "ok",
	})
}

// Get a role
// (GET /roles/:id)
func (impl *ServerImpl) GetRole(c *gin.Context) {
	const op = "GetRole"
	id, err := roleIDParam(c)
	if err != nil {
		writeError(c, op, err)
		return
	}
	role, err := impl.roles.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, op, err)
		return
	}
	c.JSON(http.StatusOK, DataResponse[RoleResponse]{
		Data:    toRoleResponse(*role),
		Message: "ok",
	})
}

// Create a role
// (POST /roles)
func (impl *ServerImpl) PostRole(c *gin.Context) {
	const op = "PostRole"
	var req RoleCreateRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, op, err)
		return
	}
	role := &models.Role{Name: req.Name, Description: req.Description}
	if err := impl.roles.Create(c.Request.Context(), role); err != nil {
		writeError(c, op, err)
		return
	}
	c.JSON(http.StatusCreated, DataResponse[RoleResponse]{
		Data:    toRoleResponse(*role),
		Message: "role created",
	})
}

// Update a role
// (PUT /roles/:id)
func (impl *ServerImpl) PutRole(c *gin.Context) {
	const op = "PutRole"
	id, err := roleIDParam(c)
	if err != nil {
		writeError(c, op, err)
		return
	}
	var req RolePatchRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, op, err)
		return
	}
	role, err := impl.roles.Update(c.Request.Context(), id, models.RolePatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(c, op, err)
		return
	}
	c.JSON(http.StatusOK, DataResponse[RoleResponse]{
		Data:    toRoleResponse(*role),
		Message: "role updated",
	})
}

func roleIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid role id", ErrBadRequest)
	}
	return uint(id), nil
}
