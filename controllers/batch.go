package controllers

import (
	"net/http"
	"strconv"

	"certificate-management-api/config"
	"certificate-management-api/models"
	"certificate-management-api/services"

	"github.com/gin-gonic/gin"
)

// GetBatches lists batches, optionally filtered by batch type and
// certificate type.
func GetBatches(c *gin.Context) {
	batchType := c.Query("type")
	certType := c.Query("cert_type")

	svc := services.NewBatchService(config.DB)
	batches, err := svc.List(batchType, certType)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"batches": batches,
		"count":   len(batches),
	})
}

// GetBatch returns one batch by ID
func GetBatch(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid batch ID"})
		return
	}

	svc := services.NewBatchService(config.DB)
	batch, err := svc.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"batch": batch})
}

// CreateBatch registers a new training batch. The batch number is generated
// when absent and the certificate-number block is reserved in the same
// transaction.
func CreateBatch(c *gin.Context) {
	var req models.BatchCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewBatchService(config.DB)
	batch, err := svc.Create(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Batch created successfully",
		"batch":   batch,
	})
}

// UpdateBatch applies a partial update; changing the participant count or
// certificate type regenerates the reserved block.
func UpdateBatch(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid batch ID"})
		return
	}

	var req models.BatchUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewBatchService(config.DB)
	batch, err := svc.Update(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Batch updated successfully",
		"batch":   batch,
	})
}

// DeleteBatch removes a batch with no dependent certificates.
func DeleteBatch(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid batch ID"})
		return
	}

	svc := services.NewBatchService(config.DB)
	if err := svc.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Batch deleted successfully"})
}
