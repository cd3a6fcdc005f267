package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
)

// IndexRequest is the body of POST /v1/index.
type IndexRequest struct {
	URI string `json:"uri" binding:"required"`
}

// IndexResponse reports a completed indexing run.
type IndexResponse struct {
	URI        string `json:"uri"`
	Shape      string `json:"shape"`
	Words      int    `json:"words"`
	Chunks     int    `json:"chunks"`
	Records    int    `json:"records"`
	DurationMS int64  `json:"duration_ms"`
}

// QuestionRequest is the body of POST /v1/query and POST /v1/context.
type QuestionRequest struct {
	Question string `json:"question" binding:"required"`
}

// AnswerResponse is returned by POST /v1/query.
type AnswerResponse struct {
	Answer string `json:"answer"`
}

// ContextResponse is returned by POST /v1/context.
type ContextResponse struct {
	Context string `json:"context"`
}

// CountResponse is returned by GET /v1/count.
type CountResponse struct {
	Count int `json:"count"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) index(c *gin.Context) {
	var req IndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	report, err := s.ports.Agent.Index(c.Request.Context(), req.URI)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newIndexResponse(report))
}

func (s *Server) deleteIndex(c *gin.Context) {
	if err := s.ports.Agent.DeleteIndex(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) query(c *gin.Context) {
	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	answer, err := s.ports.Agent.Query(c.Request.Context(), req.Question)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, AnswerResponse{Answer: answer})
}

func (s *Server) retrieveContext(c *gin.Context) {
	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	retrieved, err := s.ports.Agent.Context(c.Request.Context(), req.Question)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ContextResponse{Context: retrieved})
}

func (s *Server) count(c *gin.Context) {
	n, err := s.ports.Agent.Count(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: n})
}

func (s *Server) documents(c *gin.Context) {
	if s.ports.Documents == nil {
		c.JSON(http.StatusOK, []any{})
		return
	}

	infos, err := s.ports.Documents.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, infos)
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func newIndexResponse(r domain.IndexReport) IndexResponse {
	return IndexResponse{
		URI:        r.URI,
		Shape:      r.Shape.String(),
		Words:      r.Words,
		Chunks:     r.Chunks,
		Records:    r.Records,
		DurationMS: r.Duration.Milliseconds(),
	}
}
