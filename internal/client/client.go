package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"proctor-quiz-service/internal/domain"
)

var ErrServiceUnavailable = errors.New("quiz service unavailable")

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// HTTPClient talks to the quiz API. It satisfies session.API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

type questionItem struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   *int     `json:"answer,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	baseURL = strings.TrimSpace(baseURL)
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:5000"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// Questions fetches the question bank. hidden reports that the server
// withheld the correct options, in which case Answer is zero for every question.
func (c *HTTPClient) Questions(ctx context.Context) (questions []domain.Question, hidden bool, err error) {
	var items []questionItem
	if err := c.doJSON(ctx, http.MethodGet, "/api/questions", nil, &items); err != nil {
		return nil, false, err
	}
	questions = make([]domain.Question, 0, len(items))
	for _, item := range items {
		q := domain.Question{Prompt: item.Question, Options: item.Options}
		if item.Answer == nil {
			hidden = true
		} else {
			q.Answer = *item.Answer
		}
		questions = append(questions, q)
	}
	return questions, hidden, nil
}

func (c *HTTPClient) Submit(ctx context.Context, req domain.SubmissionRequest) (domain.Receipt, error) {
	var receipt domain.Receipt
	if err := c.doJSON(ctx, http.MethodPost, "/api/submit", req, &receipt); err != nil {
		return domain.Receipt{}, err
	}
	return receipt, nil
}

func (c *HTTPClient) Results(ctx context.Context) ([]domain.Submission, error) {
	var results []domain.Submission
	if err := c.doJSON(ctx, http.MethodGet, "/api/results", nil, &results); err != nil {
		return nil, err
	}
	if results == nil {
		results = []domain.Submission{}
	}
	return results, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, requestBody any, responseBody any) error {
	fullURL := c.baseURL + path

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return err
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := APIError{StatusCode: response.StatusCode}
		var payload errorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil && strings.TrimSpace(payload.Error) != "" {
			apiErr.Message = payload.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = response.Status
		}
		return &apiErr
	}

	if responseBody == nil {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(responseBody)
}
