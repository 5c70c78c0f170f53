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

type EnrollmentHandler struct {
	enrollmentService service.EnrollmentService
}

func NewEnrollmentHandler(enrollmentService service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService}
}

// RegisterRoutes registers the enrollment routes on an authenticated group
func (h *EnrollmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/courses/:course_id/enroll", h.Enroll)
	rg.GET("/my/courses", h.MyCourses)
}

func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	studentID, ok := c.Get("userID")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	courseID, err := strconv.ParseInt(c.Param("course_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	enrollment, err := h.enrollmentService.Enroll(ctx, studentID.(string), courseID)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, dto.FromModelToEnrollmentResponse(enrollment))
}

func (h *EnrollmentHandler) MyCourses(c *gin.Context) {
	studentID, ok := c.Get("userID")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	enrollments, err := h.enrollmentService.StudentCourses(ctx, studentID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]*dto.EnrollmentResponse, 0, len(enrollments))
	for i := range enrollments {
		out = append(out, dto.FromModelToEnrollmentResponse(&enrollments[i]))
	}
	c.JSON(http.StatusOK, out)
}
