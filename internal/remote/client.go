package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"budgettool/internal/logger"
)

// Client talks to the backend over HTTP and keeps the session on disk so a
// later run finds it again.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	sessionPath string
	log         *zap.SugaredLogger

	mu        sync.Mutex
	loaded    bool
	session   *Session
	listeners map[int]func(*Session)
	nextID    int

	refreshMu sync.Mutex
}

var _ Store = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSessionFile persists the session as JSON at path. Without it the
// session lives only in memory.
func WithSessionFile(path string) Option {
	return func(c *Client) { c.sessionPath = path }
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        logger.Named("remote"),
		listeners:  make(map[int]func(*Session)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// --- session ---

// GetSession returns the stored session after checking it with the backend.
// An expired access token is refreshed once; a session the backend rejects
// is discarded and reported as nil.
func (c *Client) GetSession(ctx context.Context) (*Session, error) {
	if c.currentSession() == nil {
		return nil, nil
	}

	err := c.doAuthed(ctx, http.MethodGet, "/api/v1/auth/session", nil, nil)
	if err != nil {
		if IsUnauthorized(err) {
			return nil, nil
		}
		return nil, err
	}
	return c.currentSession(), nil
}

// OnSessionChange registers fn to be called after every session transition.
func (c *Client) OnSessionChange(fn func(*Session)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

// SignUp registers a new account. It does not sign in.
func (c *Client) SignUp(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.send(ctx, http.MethodPost, "/api/v1/auth/signup", body, nil, "")
}

// SignInWithPassword exchanges credentials for a session and stores it.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}

	var resp sessionResponse
	if err := c.send(ctx, http.MethodPost, "/api/v1/auth/login", body, &resp, ""); err != nil {
		return nil, err
	}

	sess := resp.toSession()
	c.setSession(sess)
	return sess, nil
}

// SignOut revokes the session on the backend and forgets it locally. The
// local session is cleared even if the backend cannot be reached.
func (c *Client) SignOut(ctx context.Context) error {
	sess := c.currentSession()
	if sess == nil {
		return nil
	}

	err := c.send(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil, sess.AccessToken)
	c.setSession(nil)

	if err != nil && !IsUnauthorized(err) {
		return err
	}
	return nil
}

type sessionResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (r sessionResponse) toSession() *Session {
	return &Session{
		UserID:       r.User.ID,
		Email:        r.User.Email,
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    r.ExpiresAt,
	}
}

func (c *Client) currentSession() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		c.loaded = true
		c.session = c.readSessionFile()
	}
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

// setSession replaces the session, persists it and notifies listeners.
func (c *Client) setSession(sess *Session) {
	c.mu.Lock()
	c.loaded = true
	c.session = sess
	listeners := make([]func(*Session), 0, len(c.listeners))
	for id := 0; id < c.nextID; id++ {
		if fn, ok := c.listeners[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	c.mu.Unlock()

	if err := c.writeSessionFile(sess); err != nil {
		c.log.Warnw("failed to persist session", "path", c.sessionPath, "error", err)
	}

	for _, fn := range listeners {
		if sess == nil {
			fn(nil)
			continue
		}
		s := *sess
		fn(&s)
	}
}

func (c *Client) readSessionFile() *Session {
	if c.sessionPath == "" {
		return nil
	}
	data, err := os.ReadFile(c.sessionPath)
	if err != nil {
		if !os.IsNotExist(err) {
			c.log.Warnw("failed to read session file", "path", c.sessionPath, "error", err)
		}
		return nil
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil || sess.AccessToken == "" {
		c.log.Warnw("ignoring unreadable session file", "path", c.sessionPath)
		return nil
	}
	return &sess
}

func (c *Client) writeSessionFile(sess *Session) error {
	if c.sessionPath == "" {
		return nil
	}
	if sess == nil {
		if err := os.Remove(c.sessionPath); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.sessionPath), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.sessionPath, data, 0o600)
}

// refresh swaps stale's refresh token for a new pair. Concurrent callers
// that raced on the same stale session share one refresh.
func (c *Client) refresh(ctx context.Context, stale *Session) (*Session, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if cur := c.currentSession(); cur == nil {
		return nil, errNotSignedIn()
	} else if cur.AccessToken != stale.AccessToken {
		return cur, nil
	}

	body := map[string]string{"refresh_token": stale.RefreshToken}
	var resp sessionResponse
	if err := c.send(ctx, http.MethodPost, "/api/v1/auth/refresh", body, &resp, ""); err != nil {
		return nil, err
	}

	sess := resp.toSession()
	c.setSession(sess)
	c.log.Debugw("session refreshed", "user_id", sess.UserID)
	return sess, nil
}

// doAuthed performs a request as the signed-in user. A 401 triggers one
// refresh and retry; if that fails too the session is dropped.
func (c *Client) doAuthed(ctx context.Context, method, path string, body, out interface{}) error {
	sess := c.currentSession()
	if sess == nil {
		return errNotSignedIn()
	}

	err := c.send(ctx, method, path, body, out, sess.AccessToken)
	if !IsUnauthorized(err) {
		return err
	}

	refreshed, rerr := c.refresh(ctx, sess)
	if rerr != nil {
		if IsUnauthorized(rerr) {
			c.log.Infow("session expired", "user_id", sess.UserID)
			c.setSession(nil)
			return err
		}
		return rerr
	}

	err = c.send(ctx, method, path, body, out, refreshed.AccessToken)
	if IsUnauthorized(err) {
		c.setSession(nil)
	}
	return err
}

// send performs one HTTP round trip, decoding a 2xx body into out and any
// other status into *Error.
func (c *Client) send(ctx context.Context, method, path string, body, out interface{}, token string) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(data, &envelope)

	e := &Error{
		Status:  resp.StatusCode,
		Code:    envelope.Error.Code,
		Message: envelope.Error.Message,
	}
	if e.Message == "" {
		e.Message = http.StatusText(resp.StatusCode)
	}
	return e
}

// --- vendors ---

// ListVendors returns the caller's vendors in creation order.
func (c *Client) ListVendors(ctx context.Context) ([]Vendor, error) {
	var result struct {
		Vendors []Vendor `json:"vendors"`
	}
	if err := c.doAuthed(ctx, http.MethodGet, "/api/v1/vendors", nil, &result); err != nil {
		return nil, err
	}
	if result.Vendors == nil {
		result.Vendors = []Vendor{}
	}
	return result.Vendors, nil
}

// GetVendor fetches one vendor.
func (c *Client) GetVendor(ctx context.Context, id string) (*Vendor, error) {
	var result struct {
		Vendor *Vendor `json:"vendor"`
	}
	if err := c.doAuthed(ctx, http.MethodGet, "/api/v1/vendors/"+url.PathEscape(id), nil, &result); err != nil {
		return nil, err
	}
	return result.Vendor, nil
}

// CreateVendor creates a vendor and its seed budget in one call.
func (c *Client) CreateVendor(ctx context.Context, name string, year int) (*Vendor, error) {
	body := map[string]interface{}{"name": name, "year": year}
	var result struct {
		Vendor *Vendor `json:"vendor"`
	}
	if err := c.doAuthed(ctx, http.MethodPost, "/api/v1/vendors", body, &result); err != nil {
		return nil, err
	}
	return result.Vendor, nil
}

// UpdateVendorContact sets the vendor's contact fields; nil clears a field.
func (c *Client) UpdateVendorContact(ctx context.Context, id string, contactName, contactEmail *string) (*Vendor, error) {
	body := map[string]*string{"contact_name": contactName, "contact_email": contactEmail}
	var result struct {
		Vendor *Vendor `json:"vendor"`
	}
	if err := c.doAuthed(ctx, http.MethodPatch, "/api/v1/vendors/"+url.PathEscape(id), body, &result); err != nil {
		return nil, err
	}
	return result.Vendor, nil
}

// DeleteVendor deletes a vendor with all of its budgets and charges.
func (c *Client) DeleteVendor(ctx context.Context, id string) error {
	return c.doAuthed(ctx, http.MethodDelete, "/api/v1/vendors/"+url.PathEscape(id), nil, nil)
}

// --- budgets ---

func budgetPath(key BudgetKey) string {
	return fmt.Sprintf("/api/v1/vendors/%s/budgets/%d/%s", url.PathEscape(key.VendorID), key.Year, url.PathEscape(string(key.BudgetType)))
}

// GetBudget fetches the budget for key, or nil if none is set.
func (c *Client) GetBudget(ctx context.Context, key BudgetKey) (*Budget, error) {
	var result struct {
		Budget *Budget `json:"budget"`
	}
	if err := c.doAuthed(ctx, http.MethodGet, budgetPath(key), nil, &result); err != nil {
		return nil, err
	}
	return result.Budget, nil
}

// UpsertBudget sets the annual budget for key.
func (c *Client) UpsertBudget(ctx context.Context, key BudgetKey, amount float64) (*Budget, error) {
	body := map[string]float64{"annual_budget": amount}
	var result struct {
		Budget *Budget `json:"budget"`
	}
	if err := c.doAuthed(ctx, http.MethodPut, budgetPath(key), body, &result); err != nil {
		return nil, err
	}
	return result.Budget, nil
}

// --- charges ---

// ListCharges returns the charges for key, newest first.
func (c *Client) ListCharges(ctx context.Context, key BudgetKey) ([]Charge, error) {
	q := url.Values{}
	q.Set("year", strconv.Itoa(key.Year))
	q.Set("budget_type", string(key.BudgetType))
	path := "/api/v1/vendors/" + url.PathEscape(key.VendorID) + "/charges?" + q.Encode()

	var result struct {
		Charges []Charge `json:"charges"`
	}
	if err := c.doAuthed(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	if result.Charges == nil {
		result.Charges = []Charge{}
	}
	return result.Charges, nil
}

// CreateCharge records a charge against key.
func (c *Client) CreateCharge(ctx context.Context, key BudgetKey, input ChargeInput) (*Charge, error) {
	body := struct {
		Year          int     `json:"year"`
		BudgetType    string  `json:"budget_type"`
		ChargeDate    string  `json:"charge_date"`
		Amount        float64 `json:"amount"`
		InvoiceNumber *string `json:"invoice_number,omitempty"`
		Notes         *string `json:"notes,omitempty"`
	}{
		Year:          key.Year,
		BudgetType:    string(key.BudgetType),
		ChargeDate:    input.ChargeDate.String(),
		Amount:        input.Amount,
		InvoiceNumber: input.InvoiceNumber,
		Notes:         input.Notes,
	}

	var result struct {
		Charge *Charge `json:"charge"`
	}
	path := "/api/v1/vendors/" + url.PathEscape(key.VendorID) + "/charges"
	if err := c.doAuthed(ctx, http.MethodPost, path, body, &result); err != nil {
		return nil, err
	}
	return result.Charge, nil
}

// DeleteCharge deletes one charge.
func (c *Client) DeleteCharge(ctx context.Context, id string) error {
	return c.doAuthed(ctx, http.MethodDelete, "/api/v1/charges/"+url.PathEscape(id), nil, nil)
}
