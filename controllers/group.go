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

// GetGroups lists lookup entries, optionally restricted to one partition via
// the group_code query parameter.
func GetGroups(c *gin.Context) {
	groupCode := c.Query("group_code")

	svc := services.NewGroupService(config.DB)
	groups, err := svc.List(groupCode)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"groups": groups,
		"count":  len(groups),
	})
}

// GetGroup returns one lookup entry by ID
func GetGroup(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	svc := services.NewGroupService(config.DB)
	group, err := svc.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"group": group})
}

// GetGroupsByCode returns one partition ordered by group name.
func GetGroupsByCode(c *gin.Context) {
	svc := services.NewGroupService(config.DB)
	groups, err := svc.ByCode(c.Param("groupCode"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// CreateGroup adds a lookup entry (admin only).
func CreateGroup(c *gin.Context) {
	var req models.GroupCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Description = utils.SanitizeInput(req.Description)

	svc := services.NewGroupService(config.DB)
	group, err := svc.Create(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Group created successfully",
		"group":   group,
	})
}

// UpdateGroup applies a partial update to a lookup entry.
func UpdateGroup(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	var req models.GroupUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Description != nil {
		sanitized := utils.SanitizeInput(*req.Description)
		req.Description = &sanitized
	}

	svc := services.NewGroupService(config.DB)
	group, err := svc.Update(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Group updated successfully",
		"group":   group,
	})
}

// DeleteGroup removes a lookup entry. Records that copied the entry's value
// keep it; removal only takes the option out of the pickers.
func DeleteGroup(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	svc := services.NewGroupService(config.DB)
	if err := svc.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Group deleted successfully"})
}
