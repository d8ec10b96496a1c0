package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devpath-labs/devpath/internal/course"
)

func (s *Server) listCourses(c *gin.Context) {
	c.JSON(http.StatusOK, s.courses.ListAll(c.Request.Context()))
}

func (s *Server) getCourse(c *gin.Context) {
	crs, ok := s.courses.Get(c.Request.Context(), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}
	c.JSON(http.StatusOK, crs)
}

func (s *Server) getTopic(c *gin.Context) {
	topic, ok := s.courses.GetTopic(c.Request.Context(), c.Param("id"), c.Param("topicID"), s.questions)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "topic not found"})
		return
	}
	c.JSON(http.StatusOK, topic)
}

func (s *Server) createCourse(c *gin.Context) {
	var crs course.Course
	if err := c.ShouldBindJSON(&crs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.courses.Upsert(c.Request.Context(), crs.ID, crs); err != nil {
		writeCourseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, crs)
}

func (s *Server) updateCourse(c *gin.Context) {
	var crs course.Course
	if err := c.ShouldBindJSON(&crs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.courses.Upsert(c.Request.Context(), c.Param("id"), crs); err != nil {
		writeCourseError(c, err)
		return
	}
	crs.ID = c.Param("id")
	c.JSON(http.StatusOK, crs)
}

// deleteCourse removes a course. The caller must confirm the deletion
// explicitly with ?confirm=true.
func (s *Server) deleteCourse(c *gin.Context) {
	if c.Query("confirm") != "true" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "deletion requires confirm=true"})
		return
	}

	id := c.Param("id")
	if _, ok := s.courses.Get(c.Request.Context(), id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}

	if err := s.courses.Remove(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "storage temporarily unavailable"})
		return
	}
	if sess, ok := session(c); ok {
		slog.Info("course deleted", "course_id", id, "by", sess.Email)
	}
	c.JSON(http.StatusOK, gin.H{"message": "course deleted"})
}

func writeCourseError(c *gin.Context, err error) {
	if errors.Is(err, course.ErrInvalid) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": "storage temporarily unavailable"})
}
