package controllers

import (
	"net/http"
	"strconv"

	"certificate-management-api/config"
	"certificate-management-api/models"
	"certificate-management-api/services"
	"certificate-management-api/utils"

	"github.com/gin-gonic/gin"
)

// GetUsers lists accounts, optionally filtered by role and status
// (active/inactive).
func GetUsers(c *gin.Context) {
	role := c.Query("role")
	status := c.Query("status")

	svc := services.NewUserService(config.DB)
	users, err := svc.List(role, status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// GetUser returns one account by ID
func GetUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	svc := services.NewUserService(config.DB)
	user, err := svc.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// CreateUser registers an account (admin only). The password is hashed
// before storage and never returned.
func CreateUser(c *gin.Context) {
	var req models.UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Name = utils.SanitizeInput(req.Name)

	svc := services.NewUserService(config.DB)
	user, err := svc.Create(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    user,
	})
}

// UpdateUser applies a partial update to an account.
func UpdateUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req models.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name != nil {
		sanitized := utils.SanitizeInput(*req.Name)
		req.Name = &sanitized
	}

	svc := services.NewUserService(config.DB)
	user, err := svc.Update(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    user,
	})
}

// DeleteUser removes an account with no assigned batches. The caller cannot
// delete their own account.
func DeleteUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if actorID, _ := c.Get("userID"); actorID == id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete your own account"})
		return
	}

	svc := services.NewUserService(config.DB)
	if err := svc.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// ToggleUserStatus flips an account between active and inactive. The caller
// cannot deactivate their own account.
func ToggleUserStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if actorID, _ := c.Get("userID"); actorID == id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot deactivate your own account"})
		return
	}

	svc := services.NewUserService(config.DB)
	isActive, err := svc.ToggleStatus(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	message := "User deactivated successfully"
	if isActive {
		message = "User activated successfully"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   message,
		"is_active": isActive,
	})
}

// GetInstructors returns the active instructors for the batch picker. Open to
// every authenticated role.
func GetInstructors(c *gin.Context) {
	svc := services.NewUserService(config.DB)
	instructors, err := svc.Instructors()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"instructors": instructors})
}
