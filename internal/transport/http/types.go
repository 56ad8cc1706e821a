package http

import "proctor-quiz-service/internal/domain"

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// publicQuestion is the question payload when answers are withheld.
type publicQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type submitRequest struct {
	Name        string           `json:"name" binding:"required"`
	Email       string           `json:"email"`
	Answers     domain.AnswerMap `json:"answers" binding:"required"`
	Score       *int             `json:"score" binding:"omitempty,gte=0,lte=2147483647"`
	TabSwitches int              `json:"tabSwitches" binding:"gte=0,lte=2147483647"`
	TimeTaken   int              `json:"timeTaken" binding:"gte=0,lte=2147483647"`
}

func (r submitRequest) toDomain() domain.SubmissionRequest {
	return domain.SubmissionRequest{
		Name:        r.Name,
		Email:       r.Email,
		Answers:     r.Answers,
		Score:       r.Score,
		TabSwitches: r.TabSwitches,
		TimeTaken:   r.TimeTaken,
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}
