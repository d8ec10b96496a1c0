package server

import (
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"

	"github.com/devpath-labs/devpath/internal/assistant"
	"github.com/devpath-labs/devpath/internal/highlight"
)

type highlightRequest struct {
	Code     string `json:"code" binding:"required"`
	Language string `json:"language"`
}

func (s *Server) highlightCode(c *gin.Context) {
	var req highlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"html": highlight.Highlight(req.Code, req.Language)})
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

func (s *Server) assistantChat(c *gin.Context) {
	if s.assistant == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assistant is not configured"})
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	reply, err := s.assistant.Chat(c.Request.Context(), s.clientID(c), req.Message)
	if err != nil {
		if errors.Is(err, assistant.ErrBudgetExhausted) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "assistant budget exhausted"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "assistant temporarily unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// assistantWS serves the assistant chat over a websocket. The client
// sends {"message": ...} frames and receives {"reply": ...} or
// {"error": ...} frames.
func (s *Server) assistantWS(c *gin.Context) {
	if s.assistant == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assistant is not configured"})
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // same-origin policy is enforced upstream
	})
	if err != nil {
		return
	}
	defer conn.CloseNow()

	ctx := c.Request.Context()
	userID := s.clientID(c)

	for {
		var req chatRequest
		if err := wsjson.Read(ctx, conn, &req); err != nil {
			return
		}
		if req.Message == "" {
			if err := wsjson.Write(ctx, conn, gin.H{"error": "message is required"}); err != nil {
				return
			}
			continue
		}

		reply, err := s.assistant.Chat(ctx, userID, req.Message)
		if err != nil {
			msg := "assistant temporarily unavailable"
			if errors.Is(err, assistant.ErrBudgetExhausted) {
				msg = "assistant budget exhausted"
			}
			if err := wsjson.Write(ctx, conn, gin.H{"error": msg}); err != nil {
				return
			}
			continue
		}

		if err := wsjson.Write(ctx, conn, gin.H{"reply": reply}); err != nil {
			return
		}
	}
}
