package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gavelhq/gavel/pkg/domain"
)

// TokenSource supplies the bearer token attached to authenticated
// requests. An empty token means the request goes out unauthenticated.
type TokenSource interface {
	AccessToken() string
}

// StaticToken is a fixed-token TokenSource, mainly for tests and
// one-shot commands.
type StaticToken string

func (t StaticToken) AccessToken() string { return string(t) }

// Client is the auction and auth API client.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// New creates a new API client against the given base URL.
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// BaseURL returns the configured service base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// AuctionURL returns the web address of a listing, for sharing.
func (c *Client) AuctionURL(id int64) string {
	return c.baseURL + "/auctions/" + strconv.FormatInt(id, 10)
}

// ListOptions narrows an auction listing request.
type ListOptions struct {
	Featured   bool
	MyAuctions bool
}

// ListAuctions fetches auction records, optionally filtered.
func (c *Client) ListAuctions(ctx context.Context, opts ListOptions) ([]domain.Auction, error) {
	params := url.Values{}
	if opts.Featured {
		params.Set("featured", "true")
	}
	if opts.MyAuctions {
		params.Set("my_auctions", "true")
	}
	path := "/api/auctions/"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var auctions []domain.Auction
	if err := c.get(ctx, path, &auctions); err != nil {
		return nil, fmt.Errorf("client.ListAuctions: %w", err)
	}
	return auctions, nil
}

// GetAuction fetches a single auction record by id.
func (c *Client) GetAuction(ctx context.Context, id int64) (*domain.Auction, error) {
	var a domain.Auction
	if err := c.get(ctx, auctionPath(id), &a); err != nil {
		return nil, fmt.Errorf("client.GetAuction: %w", err)
	}
	return &a, nil
}

// PlaceBid submits a bid for an auction. A non-2xx response surfaces as
// an *HTTPError carrying the server's message.
func (c *Client) PlaceBid(ctx context.Context, id int64, amount float64) error {
	body := map[string]float64{"bid_amount": amount}
	if err := c.post(ctx, auctionPath(id)+"bid/", body, nil); err != nil {
		return fmt.Errorf("client.PlaceBid: %w", err)
	}
	return nil
}

// CreateAuctionRequest is the payload for creating a listing. The
// server seeds the current bid from the starting bid.
type CreateAuctionRequest struct {
	Name          string  `json:"name"`
	Year          int     `json:"year"`
	StartingBid   float64 `json:"starting_bid"`
	CurrentBid    float64 `json:"current_bid"`
	BuyNowPrice   float64 `json:"buy_now_price"`
	DurationHours int     `json:"duration_hours"`
}

// CreateAuction creates a new listing.
func (c *Client) CreateAuction(ctx context.Context, req CreateAuctionRequest) (*domain.Auction, error) {
	var created domain.Auction
	if err := c.post(ctx, "/api/auctions/", req, &created); err != nil {
		return nil, fmt.Errorf("client.CreateAuction: %w", err)
	}
	return &created, nil
}

// UploadAuctionImages attaches image files to a listing. The first
// image is marked primary.
func (c *Client) UploadAuctionImages(ctx context.Context, id int64, paths []string) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for i, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return fmt.Errorf("client.UploadAuctionImages: open %s: %w", p, err)
		}
		part, err := w.CreateFormFile("images", filepath.Base(p))
		if err == nil {
			_, err = io.Copy(part, f)
		}
		f.Close() //nolint:errcheck // read-only file
		if err != nil {
			return fmt.Errorf("client.UploadAuctionImages: write %s: %w", p, err)
		}
		if err := w.WriteField("is_primary", strconv.FormatBool(i == 0)); err != nil {
			return fmt.Errorf("client.UploadAuctionImages: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("client.UploadAuctionImages: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+auctionPath(id)+"images/", &buf)
	if err != nil {
		return fmt.Errorf("client.UploadAuctionImages: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if tok := c.tokens.AccessToken(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client.UploadAuctionImages: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close
	if resp.StatusCode >= 400 {
		return fmt.Errorf("client.UploadAuctionImages: %w", errorFromResponse(resp))
	}
	return nil
}

// DeleteAuction removes a listing.
func (c *Client) DeleteAuction(ctx context.Context, id int64) error {
	if err := c.doRequest(ctx, http.MethodDelete, auctionPath(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteAuction: %w", err)
	}
	return nil
}

// LoginResult is the auth service's response to a successful login.
type LoginResult struct {
	Tokens struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	} `json:"tokens"`
	IsAdmin  bool   `json:"is_admin"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	var result LoginResult
	if err := c.post(ctx, "/api/auth/login/", body, &result); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &result, nil
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, username, email, password, confirm string) error {
	body := map[string]string{
		"username":         username,
		"email":            email,
		"password":         password,
		"confirm_password": confirm,
	}
	if err := c.post(ctx, "/api/auth/signup/", body, nil); err != nil {
		return fmt.Errorf("client.Signup: %w", err)
	}
	return nil
}

// Logout notifies the auth service that the session is over. The local
// session is cleared regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.post(ctx, "/api/auth/logout/", nil, nil); err != nil {
		return fmt.Errorf("client.Logout: %w", err)
	}
	return nil
}

// GetProfile fetches a user's public profile.
func (c *Client) GetProfile(ctx context.Context, username string) (*domain.Profile, error) {
	var p domain.Profile
	if err := c.get(ctx, "/api/auth/profile/"+url.PathEscape(username)+"/", &p); err != nil {
		return nil, fmt.Errorf("client.GetProfile: %w", err)
	}
	return &p, nil
}

func auctionPath(id int64) string {
	return "/api/auctions/" + strconv.FormatInt(id, 10) + "/"
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.tokens.AccessToken(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		return errorFromResponse(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// HTTPError is a non-2xx response from the auction service. Message is
// the text of the body's "error" field when the service sent one, so a
// bid rejection carries the service's own wording.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err wraps an HTTPError with the given status
// code. Callers use it to tell a deleted listing (404) apart from other
// failures.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == code
}

func errorFromResponse(resp *http.Response) error {
	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
	if readErr != nil {
		return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
	}
	var apiErr struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
		return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}
	return &HTTPError{StatusCode: resp.StatusCode, Message: string(respBody)}
}
