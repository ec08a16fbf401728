package client

// http_client.go wraps the ReviewHub HTTP API for the CLI commands.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// Auth request/response structures
type SendCodeRequest struct {
	Email string `json:"email"`
}

type SendCodeResponse struct {
	Email string `json:"email"`
}

type TokenRequest struct {
	Email            string `json:"email"`
	ConfirmationCode string `json:"confirmation_code"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// User structures
type UserResponse struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Username  *string `json:"username"`
	Bio       string  `json:"bio"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
}

type UpdateUserRequest struct {
	Username  *string `json:"username,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}

// Catalog structures
type TitleResponse struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Year        *int           `json:"year"`
	Rating      *float64       `json:"rating"`
	Description string         `json:"description"`
	Genre       []SlugResponse `json:"genre"`
	Category    *SlugResponse  `json:"category"`
}

type SlugResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type CreateTitleRequest struct {
	Name        string   `json:"name"`
	Year        *int     `json:"year,omitempty"`
	Description string   `json:"description,omitempty"`
	Genre       []string `json:"genre"`
	Category    *string  `json:"category,omitempty"`
}

// Review and comment structures
type CreateReviewRequest struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

type ReviewResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

type CreateCommentRequest struct {
	Text string `json:"text"`
}

type CommentResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

type Paginated[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: apiURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// do sends a request with the JSON body and decodes the response into out.
func (c *HTTPClient) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var e apiError
		if json.NewDecoder(resp.Body).Decode(&e) == nil && e.Message != "" {
			return fmt.Errorf("%s (%s)", e.Message, resp.Status)
		}
		return fmt.Errorf("request failed with status: %s", resp.Status)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) SendCode(request *SendCodeRequest) (*SendCodeResponse, error) {
	var result SendCodeResponse
	if err := c.do(http.MethodPost, "/auth/email", request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Token(request *TokenRequest) (*TokenResponse, error) {
	var result TokenResponse
	if err := c.do(http.MethodPost, "/auth/token", request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Me() (*UserResponse, error) {
	var result UserResponse
	if err := c.do(http.MethodGet, "/users/me", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) UpdateMe(request *UpdateUserRequest) (*UserResponse, error) {
	var result UserResponse
	if err := c.do(http.MethodPatch, "/users/me", request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) ListTitles(query url.Values) (*Paginated[TitleResponse], error) {
	path := "/titles"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	var result Paginated[TitleResponse]
	if err := c.do(http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GetTitle(id int64) (*TitleResponse, error) {
	var result TitleResponse
	if err := c.do(http.MethodGet, fmt.Sprintf("/titles/%d", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) CreateTitle(request *CreateTitleRequest) (*TitleResponse, error) {
	var result TitleResponse
	if err := c.do(http.MethodPost, "/titles", request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) DeleteTitle(id int64) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/titles/%d", id), nil, nil)
}

func (c *HTTPClient) ListReviews(titleID int64) (*Paginated[ReviewResponse], error) {
	var result Paginated[ReviewResponse]
	if err := c.do(http.MethodGet, fmt.Sprintf("/titles/%d/reviews", titleID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) CreateReview(titleID int64, request *CreateReviewRequest) (*ReviewResponse, error) {
	var result ReviewResponse
	if err := c.do(http.MethodPost, fmt.Sprintf("/titles/%d/reviews", titleID), request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) DeleteReview(titleID, reviewID int64) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/titles/%d/reviews/%d", titleID, reviewID), nil, nil)
}

func (c *HTTPClient) ListComments(titleID, reviewID int64) (*Paginated[CommentResponse], error) {
	var result Paginated[CommentResponse]
	if err := c.do(http.MethodGet, fmt.Sprintf("/titles/%d/reviews/%d/comments", titleID, reviewID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) CreateComment(titleID, reviewID int64, request *CreateCommentRequest) (*CommentResponse, error) {
	var result CommentResponse
	if err := c.do(http.MethodPost, fmt.Sprintf("/titles/%d/reviews/%d/comments", titleID, reviewID), request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
