package controllers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"certificate-management-api/config"
	"certificate-management-api/models"
	"certificate-management-api/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultMaxFileSize = 5 * 1024 * 1024 // 5MB

var allowedAttachmentTypes = map[string]bool{
	models.AttachmentEID:         true,
	models.AttachmentLicense:     true,
	models.AttachmentSignedCert:  true,
	models.AttachmentHolderPhoto: true,
}

var allowedFileExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// GetCertificates lists certificates, optionally filtered by status and
// owning batch.
func GetCertificates(c *gin.Context) {
	status := c.Query("status")
	batchID, _ := strconv.Atoi(c.Query("batch_id"))

	svc := services.NewCertificateService(config.DB)
	certs, err := svc.List(status, batchID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"certificates": certs,
		"count":        len(certs),
	})
}

// GetCertificate returns one certificate by ID
func GetCertificate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid certificate ID"})
		return
	}

	svc := services.NewCertificateService(config.DB)
	cert, err := svc.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"certificate": cert})
}

// CreateCertificate issues a certificate against a batch slot. The number is
// drawn from the batch's reserved block when not supplied; the status is
// computed from the due date.
func CreateCertificate(c *gin.Context) {
	var req models.CertificateCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewCertificateService(config.DB)
	cert, err := svc.Create(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Certificate created successfully",
		"certificate": cert,
	})
}

// UpdateCertificate applies a partial update; a due-date change recomputes
// the status in the same write.
func UpdateCertificate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid certificate ID"})
		return
	}

	var req models.CertificateUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewCertificateService(config.DB)
	cert, err := svc.Update(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Certificate updated successfully",
		"certificate": cert,
	})
}

// DeleteCertificate removes a certificate, its attachment rows and their
// stored files.
func DeleteCertificate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid certificate ID"})
		return
	}

	svc := services.NewCertificateService(config.DB)
	if err := svc.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Certificate deleted successfully"})
}

// UploadAttachment stores one supporting file (EID scan, license, signed
// certificate, photo) against a certificate, replacing any previous file of
// the same type.
func UploadAttachment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid certificate ID"})
		return
	}

	fileType := c.PostForm("file_type")
	if !allowedAttachmentTypes[fileType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	if file.Size > maxFileSize() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedFileExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only images (JPEG, JPG, PNG) and PDF files are allowed"})
		return
	}

	uploadDir := filepath.Join(uploadPath(), "certificates")
	if err := os.MkdirAll(uploadDir, os.ModePerm); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare upload directory"})
		return
	}

	storedPath := filepath.Join(uploadDir, fmt.Sprintf("%s%s", uuid.New().String(), ext))
	if err := c.SaveUploadedFile(file, storedPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	svc := services.NewCertificateService(config.DB)
	attachment, err := svc.AddAttachment(id, file.Filename, fileType, storedPath, file.Size)
	if err != nil {
		// The record failed; don't leave the orphan file behind.
		_ = os.Remove(storedPath)
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Attachment uploaded successfully",
		"attachment": attachment,
	})
}

// DeleteAttachment removes one attachment and its stored file.
func DeleteAttachment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid certificate ID"})
		return
	}
	attachmentID, err := strconv.Atoi(c.Param("attachmentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attachment ID"})
		return
	}

	svc := services.NewCertificateService(config.DB)
	if err := svc.DeleteAttachment(id, attachmentID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Attachment deleted successfully"})
}

// UpdateStatuses runs the status sweep over every certificate. Externally
// triggered (cron or the refresh-statuses tool); never self-scheduling.
func UpdateStatuses(c *gin.Context) {
	svc := services.NewStatusService(config.DB)
	updated, failed, err := svc.RefreshAll()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Certificate statuses updated successfully",
		"updated": updated,
		"failed":  failed,
	})
}

func uploadPath() string {
	if path := os.Getenv("UPLOAD_DIR"); path != "" {
		return path
	}
	return "./uploads"
}

func maxFileSize() int64 {
	if raw := os.Getenv("MAX_FILE_SIZE"); raw != "" {
		if size, err := strconv.ParseInt(raw, 10, 64); err == nil && size > 0 {
			return size
		}
	}
	return defaultMaxFileSize
}
