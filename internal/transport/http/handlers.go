package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"proctor-quiz-service/internal/app"
	"proctor-quiz-service/internal/domain"
)

const (
	msgSaved          = "Result saved successfully"
	msgRequired       = "Name and answers are required"
	msgInvalid        = "Invalid submission"
	msgInvalidJSON    = "invalid JSON body"
	msgSaveFailed     = "Failed to save result"
	msgResultsFailure = "Failed to load results"
)

type Handler struct {
	service     *app.QuizService
	hideAnswers bool
	log         zerolog.Logger
}

func NewHandler(service *app.QuizService, hideAnswers bool, log zerolog.Logger) *Handler {
	return &Handler{
		service:     service,
		hideAnswers: hideAnswers,
		log:         log.With().Str("component", "api").Logger(),
	}
}

// Questions godoc
// GET /api/questions
func (h *Handler) Questions(c *gin.Context) {
	questions := h.service.Questions()
	if !h.hideAnswers {
		c.JSON(http.StatusOK, questions)
		return
	}
	public := make([]publicQuestion, 0, len(questions))
	for _, q := range questions {
		public = append(public, publicQuestion{Question: q.Prompt, Options: q.Options})
	}
	c.JSON(http.StatusOK, public)
}

// Submit godoc
// POST /api/submit
func (h *Handler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := translateErrors(err)
		if fields == nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: msgInvalidJSON})
			return
		}
		message := msgInvalid
		if _, ok := fields["name"]; ok {
			message = msgRequired
		} else if _, ok := fields["answers"]; ok {
			message = msgRequired
		}
		c.JSON(http.StatusBadRequest, errorResponse{Error: message, Fields: fields})
		return
	}

	submission, err := h.service.Submit(c.Request.Context(), req.toDomain())
	if err != nil {
		if domain.IsValidation(err) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: msgRequired})
			return
		}
		h.log.Error().Err(err).Str("request_id", c.GetString(ContextKeyRequestID)).Msg("save result failed")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: msgSaveFailed})
		return
	}

	c.JSON(http.StatusOK, domain.Receipt{
		Message: msgSaved,
		ID:      submission.ID,
		Score:   submission.Score,
	})
}

// Results godoc
// GET /api/results
func (h *Handler) Results(c *gin.Context) {
	results, err := h.service.Results(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list results failed")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: msgResultsFailure})
		return
	}
	c.JSON(http.StatusOK, results)
}
