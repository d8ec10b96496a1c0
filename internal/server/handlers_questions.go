package server

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devpath-labs/devpath/internal/authoring"
	"github.com/devpath-labs/devpath/internal/grading"
	"github.com/devpath-labs/devpath/internal/question"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) listQuestions(c *gin.Context) {
	opts := question.FilterOptions{
		Type:     question.Type(c.Query("type")),
		TopicID:  c.Query("topic_id"),
		CourseID: c.Query("course_id"),
		Search:   c.Query("search"),
	}
	if opts.Type != "" && !opts.Type.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown question type"})
		return
	}
	c.JSON(http.StatusOK, s.questions.Filter(c.Request.Context(), opts))
}

func (s *Server) getQuestion(c *gin.Context) {
	q, ok := s.questions.Get(c.Request.Context(), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
		return
	}
	c.JSON(http.StatusOK, q)
}

// createQuestion runs the posted question through the authoring rules
// before it reaches the collection.
func (s *Server) createQuestion(c *gin.Context) {
	var q question.Question
	if err := c.ShouldBindJSON(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q.ID = "" // creation always mints a fresh ID

	s.saveQuestion(c, q)
}

func (s *Server) updateQuestion(c *gin.Context) {
	id := c.Param("id")
	if _, ok := s.questions.Get(c.Request.Context(), id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
		return
	}

	var q question.Question
	if err := c.ShouldBindJSON(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q.ID = id

	s.saveQuestion(c, q)
}

func (s *Server) saveQuestion(c *gin.Context, q question.Question) {
	if !q.Type.Valid() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown question type"})
		return
	}

	form := authoring.NewForm(s.questions)
	form.Load(q)

	saved, err := form.Save(c.Request.Context())
	if err != nil {
		var verr *authoring.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": verr.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "storage temporarily unavailable"})
		return
	}

	status := http.StatusCreated
	if q.ID != "" {
		status = http.StatusOK
	}
	c.JSON(status, saved)
}

func (s *Server) deleteQuestion(c *gin.Context) {
	id := c.Param("id")
	if _, ok := s.questions.Get(c.Request.Context(), id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
		return
	}

	if err := s.questions.Remove(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "storage temporarily unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "question deleted"})
}

// importQuestions accepts a JSON array of questions (validated against
// the import schema) or an xlsx workbook in the export layout, and
// merges it into the collection. Optional course_id and topic_id query
// parameters stamp the imported questions with a target location.
func (s *Server) importQuestions(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable request body"})
		return
	}

	var qs []question.Question
	if c.ContentType() == xlsxContentType {
		qs, err = question.ReadXLSX(bytes.NewReader(data))
	} else {
		qs, err = question.ParseImport(data)
	}
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	courseID, topicID := c.Query("course_id"), c.Query("topic_id")
	for i := range qs {
		if courseID != "" {
			qs[i].CourseID = courseID
		}
		if topicID != "" {
			qs[i].TopicID = topicID
		}
	}

	if err := s.questions.UpsertMany(c.Request.Context(), qs); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "storage temporarily unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": len(qs)})
}

func (s *Server) exportQuestions(c *gin.Context) {
	qs := s.questions.ListAll(c.Request.Context())

	c.Header("Content-Disposition", `attachment; filename="questions.xlsx"`)
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if err := question.WriteXLSX(c.Writer, qs); err != nil {
		// Headers are already out; all we can do is log.
		slog.Error("xlsx export failed", "error", err)
	}
}

type checkRequest struct {
	SelectedOptionID string `json:"selectedOptionId"`
	Answer           string `json:"answer"`
}

// checkQuestion grades a learner response against the stored question.
func (s *Server) checkQuestion(c *gin.Context) {
	q, ok := s.questions.Get(c.Request.Context(), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
		return
	}

	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	correct := grading.Grade(q, grading.Response{
		SelectedOptionID: req.SelectedOptionID,
		Answer:           req.Answer,
	})

	resp := gin.H{"correct": correct, "explanation": q.Explanation}
	if opt, found := q.CorrectOption(); found {
		resp["correctOptionId"] = opt.ID
	}
	c.JSON(http.StatusOK, resp)
}
