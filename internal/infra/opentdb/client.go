package opentdb

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"trivia-service/internal/domain"
)

// DefaultBaseURL is the public Open Trivia Database endpoint.
const DefaultBaseURL = "https://opentdb.com/api.php"

// Client fetches multiple-choice questions from the question bank.
// One outbound request per call; no caching, no retry.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type apiResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []apiQuestion `json:"results"`
}

type apiQuestion struct {
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// FetchQuestions requests count multiple-choice questions at the given
// difficulty. Text arrives HTML-entity encoded and is decoded here;
// malformed entries are dropped rather than trusted. A short batch is
// returned as-is; the session just runs shorter.
func (c *Client) FetchQuestions(ctx context.Context, count int, difficulty domain.Difficulty) ([]domain.Question, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQuestionSource, err)
	}
	q := u.Query()
	q.Set("amount", strconv.Itoa(count))
	q.Set("type", "multiple")
	q.Set("difficulty", string(difficulty))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQuestionSource, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQuestionSource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", domain.ErrQuestionSource, resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrQuestionSource, err)
	}

	questions := make([]domain.Question, 0, len(payload.Results))
	for _, item := range payload.Results {
		if item.Question == "" || item.CorrectAnswer == "" || len(item.IncorrectAnswers) == 0 {
			continue
		}
		incorrect := make([]string, 0, len(item.IncorrectAnswers))
		for _, raw := range item.IncorrectAnswers {
			incorrect = append(incorrect, html.UnescapeString(raw))
		}
		questions = append(questions, domain.Question{
			Text:             html.UnescapeString(item.Question),
			CorrectAnswer:    html.UnescapeString(item.CorrectAnswer),
			IncorrectAnswers: incorrect,
		})
	}
	return questions, nil
}
