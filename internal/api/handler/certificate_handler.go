package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"skillhub/internal/api/dto"
	"skillhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type CertificateHandler struct {
	certificateService service.CertificateService
}

func NewCertificateHandler(certificateService service.CertificateService) *CertificateHandler {
	return &CertificateHandler{certificateService: certificateService}
}

// RegisterRoutes registers the authenticated certificate routes
func (h *CertificateHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/courses/:course_id/certificate", h.IssueCertificate)
	rg.GET("/courses/:course_id/certificate/eligibility", h.Eligibility)
	rg.GET("/certificates/my", h.MyCertificates)
}

// RegisterPublicRoutes registers the unauthenticated verification route
func (h *CertificateHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/certificates/:certificate_number", h.CertificateByNumber)
}

func (h *CertificateHandler) IssueCertificate(c *gin.Context) {
	studentID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	courseID, err := strconv.ParseInt(c.Param("course_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	cert, err := h.certificateService.IssueCertificate(ctx, studentID.(string), courseID, c.Request.Host)
	if err != nil {
		var ineligible *service.IneligibleError
		switch {
		case errors.As(err, &ineligible):
			c.JSON(http.StatusConflict, gin.H{
				"error":                 err.Error(),
				"completion_percentage": ineligible.Completion,
			})
		case errors.Is(err, service.ErrCourseNotFound), errors.Is(err, service.ErrStudentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, dto.FromModelToCertificateResponse(cert))
}

func (h *CertificateHandler) Eligibility(c *gin.Context) {
	studentID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	courseID, err := strconv.ParseInt(c.Param("course_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	eligible, pct, err := h.certificateService.Eligibility(ctx, studentID.(string), courseID)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.EligibilityResponse{
		CourseID:             courseID,
		Eligible:             eligible,
		CompletionPercentage: pct,
	})
}

func (h *CertificateHandler) MyCertificates(c *gin.Context) {
	studentID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	certs, err := h.certificateService.StudentCertificates(ctx, studentID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]*dto.CertificateResponse, 0, len(certs))
	for i := range certs {
		responses = append(responses, dto.FromModelToCertificateResponse(&certs[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *CertificateHandler) CertificateByNumber(c *gin.Context) {
	number := c.Param("certificate_number")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	cert, err := h.certificateService.CertificateByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, service.ErrCertificateNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.FromModelToCertificateResponse(cert))
}
