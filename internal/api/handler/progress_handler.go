package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"skillhub/internal/api/dto"
	"skillhub/internal/api/middleware"
	"skillhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	progressService service.ProgressService
	accessService   service.AccessService
}

func NewProgressHandler(progressService service.ProgressService, accessService service.AccessService) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
		accessService:   accessService,
	}
}

// RegisterRoutes registers the progress-related routes
func (h *ProgressHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/lessons/:lesson_id/progress", h.UpdateProgress)
	rg.GET("/lessons/:lesson_id/progress", h.GetProgress)
	rg.GET("/lessons/:lesson_id/access", h.LessonAccess)
	rg.POST("/lessons/:lesson_id/complete",
		middleware.RequireRoles("INSTRUCTOR", "ADMIN"), h.MarkCompleted)
	rg.GET("/courses/:course_id/progress", h.CourseProgress)
	rg.GET("/courses/:course_id/next-lesson", h.NextLesson)
	rg.GET("/my/progress", h.MyProgress)
}

func (h *ProgressHandler) UpdateProgress(c *gin.Context) {
	studentID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	lessonID, err := strconv.ParseInt(c.Param("lesson_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lesson id"})
		return
	}

	var req dto.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	progress, err := h.progressService.UpdateProgress(ctx, studentID.(string), lessonID, req.WatchedDuration)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLessonNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrInvalidWatchedDuration):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, dto.FromModelToProgressResponse(progress))
}

func (h *ProgressHandler) GetProgress(c *gin.Context) {
	studentID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	lessonID, err := strconv.ParseInt(c.Param("lesson_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lesson id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	progress, err := h.progressService.GetProgress(ctx, studentID.(string), lessonID)
	if err != nil {
		if errors.Is(err, service.ErrProgressNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.FromModelToProgressResponse(progress))
}

func (h *ProgressHandler) LessonAccess(c *gin.Context) {
	studentID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	lessonID, err := strconv.ParseInt(c.Param("lesson_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lesson id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	accessible, err := h.accessService.IsLessonAccessible(ctx, studentID.(string), lessonID)
	if err != nil {
		if errors.Is(err, service.ErrLessonNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.LessonAccessResponse{LessonID: lessonID, Accessible: accessible})
}

// MarkCompleted is the administrative override; the target student comes from
// the request body, not the caller's token.
func (h *ProgressHandler) MarkCompleted(c *gin.Context) {
	lessonID, err := strconv.ParseInt(c.Param("lesson_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lesson id"})
		return
	}

	var req struct {
		StudentID string `json:"student_id" binding:"required,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	progress, err := h.progressService.MarkCompleted(ctx, req.StudentID, lessonID)
	if err != nil {
		if errors.Is(err, service.ErrLessonNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.FromModelToProgressResponse(progress))
}

func (h *ProgressHandler) CourseProgress(c *gin.Context) {
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

	pct, err := h.progressService.CourseCompletion(ctx, studentID.(string), courseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.CourseCompletionResponse{CourseID: courseID, CompletionPercentage: pct})
}

func (h *ProgressHandler) NextLesson(c *gin.Context) {
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

	lesson, err := h.accessService.NextAccessibleLesson(ctx, studentID.(string), courseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if lesson == nil {
		// Either everything accessible is completed or the course is locked.
		c.JSON(http.StatusOK, gin.H{"lesson": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"lesson": lesson})
}

func (h *ProgressHandler) MyProgress(c *gin.Context) {
	studentID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	records, err := h.progressService.StudentProgress(ctx, studentID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]*dto.ProgressResponse, 0, len(records))
	for i := range records {
		responses = append(responses, dto.FromModelToProgressResponse(&records[i]))
	}
	c.JSON(http.StatusOK, responses)
}
