package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/printhaus/printhaus-api/middleware"
	"github.com/printhaus/printhaus-api/models"
	"github.com/printhaus/printhaus-api/storage"
	"github.com/printhaus/printhaus-api/utils"
)

// CreateUserRequest represents the request body for registering a profile
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

// UpdateUserRequest represents the request body for updating a profile
type UpdateUserRequest struct {
	Name  string `json:"name" binding:"omitempty"`
	Email string `json:"email" binding:"omitempty,email"`
}

// UpdateRoleRequest represents the request body for changing a user's role
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=customer vip admin"`
}

// UserController exposes user profiles. Registration is open; everything a
// profile needs beyond identity (sessions, passwords) lives outside this
// service.
type UserController struct {
	users *storage.UserStore
}

// NewUserController creates a user controller
func NewUserController(users *storage.UserStore) *UserController {
	return &UserController{users: users}
}

// Create handles POST /api/v1/users - registers a new customer profile.
// New profiles always start as customers; roles are granted separately by
// an admin.
func (ctl *UserController) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	username, err := utils.ValidateName("username", req.Username)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	user := &models.User{
		Username: username,
		Name:     utils.SanitizeText(req.Name),
		Email:    req.Email,
		Role:     models.RoleCustomer,
	}
	if !ctl.users.Add(user) {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DUPLICATE_USER",
				"message": "A user with this username already exists",
			},
		})
		return
	}
	ctl.users.Save()

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    user,
	})
}

// Me handles GET /api/v1/users/me - returns the caller's profile
func (ctl *UserController) Me(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// UpdateMe handles PATCH /api/v1/users/me - updates the caller's profile
func (ctl *UserController) UpdateMe(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	if req.Name != "" {
		user.Name = utils.SanitizeText(req.Name)
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	ctl.users.Update(user)
	ctl.users.Save()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// List handles GET /api/v1/users - returns every profile (admin only,
// gated by the router)
func (ctl *UserController) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    ctl.users.GetAll(),
	})
}

// UpdateRole handles PATCH /api/v1/users/:username/role - grants a role
// (admin only, gated by the router)
func (ctl *UserController) UpdateRole(c *gin.Context) {
	user := ctl.users.GetByUsername(c.Param("username"))
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "No user exists with this username",
			},
		})
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	user.Role = req.Role
	ctl.users.Update(user)
	ctl.users.Save()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}
