// Package identitytoolkit implements provider.Provider over the Identity
// Toolkit REST API (the API behind Firebase Authentication), including the
// local auth emulator.
//
// Endpoints used:
//
//	POST {Endpoint}/v1/accounts:signUp
//	POST {Endpoint}/v1/accounts:signInWithPassword
//	POST {Endpoint}/v1/accounts:sendOobCode
//	POST {Endpoint}/v1/accounts:lookup
//	POST {SecureTokenEndpoint}/v1/token
//
// The signed-in user and its tokens are kept in a UserStore so a restarted
// client can Restore the provider-level session, the way the mobile SDK keeps
// it in the keychain. Reads (lookup, token refresh) retry transport failures
// and 5xx answers with exponential backoff. Calls that change provider state
// (signUp, signInWithPassword, sendOobCode) retry only when the request never
// left the client. Provider answers (4xx) are always final.
package identitytoolkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"path"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/mynote/internal/client/models"
	"github.com/dmitrijs2005/mynote/internal/client/provider"
	"github.com/dmitrijs2005/mynote/internal/logging"
	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultEndpoint            = "https://identitytoolkit.googleapis.com"
	DefaultSecureTokenEndpoint = "https://securetoken.googleapis.com"

	maxResponseBytes = 1 << 20
	// tokenLeeway refreshes ID tokens slightly before they expire.
	tokenLeeway = 30 * time.Second
)

// Config configures a Client.
type Config struct {
	Endpoint            string
	SecureTokenEndpoint string
	APIKey              string

	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration

	// MaxRetries is the number of extra attempts after a retryable failure.
	MaxRetries uint64

	// RetryBase is the first backoff interval.
	RetryBase time.Duration

	// TracerProvider receives one client span per API call. Defaults to the
	// global provider.
	TracerProvider trace.TracerProvider
}

func (c *Config) applyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.SecureTokenEndpoint == "" {
		c.SecureTokenEndpoint = DefaultSecureTokenEndpoint
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.RetryBase <= 0 {
		c.RetryBase = 200 * time.Millisecond
	}
	if c.TracerProvider == nil {
		c.TracerProvider = otel.GetTracerProvider()
	}
	c.Endpoint = strings.TrimRight(c.Endpoint, "/")
	c.SecureTokenEndpoint = strings.TrimRight(c.SecureTokenEndpoint, "/")
}

// Client is a provider.Provider backed by the REST API.
//
// State listeners run while the client serialises notifications; they must
// not sign in or out from inside the callback.
type Client struct {
	cfg       Config
	http      *http.Client
	store     UserStore
	log       logging.Logger
	tracer    trace.Tracer
	now       func() time.Time
	listeners provider.Listeners

	notifyMu sync.Mutex

	mu      sync.Mutex
	current *StoredUser
}

var _ provider.Provider = (*Client)(nil)

// New creates a Client. A nil store keeps the session in memory only.
func New(cfg Config, store UserStore, log logging.Logger) *Client {
	cfg.applyDefaults()
	if store == nil {
		store = &MemoryUserStore{}
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		store:  store,
		log:    log.With("component", "identitytoolkit"),
		tracer: cfg.TracerProvider.Tracer("mynote/identitytoolkit"),
		now:    time.Now,
	}
}

// Restore loads the persisted user, if any, and makes it current.
func (c *Client) Restore(ctx context.Context) error {
	u, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if u == nil {
		return nil
	}
	c.log.Info(ctx, "restored session", "uid", u.UID)
	c.setCurrent(u)
	return nil
}

func (c *Client) CreateAccount(ctx context.Context, email, password string) (*models.Identity, error) {
	var resp authResponse
	req := passwordRequest{Email: email, Password: password, ReturnSecureToken: true}
	if err := c.postJSON(ctx, c.accountsURL("signUp"), retryUnsent, req, &resp); err != nil {
		return nil, err
	}
	return c.completeSignIn(ctx, resp)
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*models.Identity, error) {
	var resp authResponse
	req := passwordRequest{Email: email, Password: password, ReturnSecureToken: true}
	if err := c.postJSON(ctx, c.accountsURL("signInWithPassword"), retryUnsent, req, &resp); err != nil {
		return nil, err
	}
	return c.completeSignIn(ctx, resp)
}

// SendEmailVerification mails a verification link to id, which must be the
// current user: the request is authorised with its ID token.
func (c *Client) SendEmailVerification(ctx context.Context, id *models.Identity) error {
	u := c.currentUser()
	if id == nil || !models.Same(identityOf(u), id) {
		return provider.NewError(provider.CodeUserMismatch, "")
	}

	token, err := c.freshIDToken(ctx, u)
	if err != nil {
		return err
	}

	var resp oobCodeResponse
	req := oobCodeRequest{RequestType: requestTypeVerifyEmail, IDToken: token}
	if err := c.postJSON(ctx, c.accountsURL("sendOobCode"), retryUnsent, req, &resp); err != nil {
		return err
	}
	c.log.Debug(ctx, "verification email requested", "uid", u.UID)
	return nil
}

func (c *Client) CurrentIdentity() *models.Identity {
	return identityOf(c.currentUser())
}

// SignOut drops the persisted user. It fails with CodeKeychainError when the
// local store cannot be cleared, leaving the current user in place.
func (c *Client) SignOut(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		pe := provider.NewError(provider.CodeKeychainError, "")
		pe.Err = err
		return pe
	}
	c.setCurrent(nil)
	return nil
}

func (c *Client) OnAuthStateChanged(fn provider.StateListener) provider.ListenerHandle {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	h := c.listeners.Add(fn)
	fn(c.CurrentIdentity())
	return h
}

func (c *Client) RemoveAuthStateListener(h provider.ListenerHandle) {
	c.listeners.Remove(h)
}

func (c *Client) completeSignIn(ctx context.Context, resp authResponse) (*models.Identity, error) {
	u := &StoredUser{
		UID:          resp.LocalID,
		Email:        resp.Email,
		IDToken:      resp.IDToken,
		RefreshToken: resp.RefreshToken,
	}

	if claims, err := parseIDToken(resp.IDToken); err == nil {
		u.EmailVerified = claims.EmailVerified
		if u.UID == "" {
			u.UID = claims.uid()
		}
		if u.Email == "" {
			u.Email = claims.Email
		}
	} else {
		c.log.Debug(ctx, "id token unreadable, looking up account", "error", err)
		if err := c.lookupInto(ctx, u); err != nil {
			return nil, err
		}
	}

	if err := c.store.Save(ctx, u); err != nil {
		c.log.Warn(ctx, "persisting signed-in user failed", "uid", u.UID, "error", err)
	}
	c.setCurrent(u)
	return identityOf(u), nil
}

func (c *Client) lookupInto(ctx context.Context, u *StoredUser) error {
	var resp lookupResponse
	if err := c.postJSON(ctx, c.accountsURL("lookup"), retryAll, lookupRequest{IDToken: u.IDToken}, &resp); err != nil {
		return err
	}
	if len(resp.Users) == 0 {
		return provider.NewError(provider.CodeUserNotFound, "")
	}
	info := resp.Users[0]
	u.UID = info.LocalID
	u.Email = info.Email
	u.EmailVerified = info.EmailVerified
	return nil
}

// freshIDToken returns u's ID token, exchanging the refresh token first when
// the ID token is about to expire.
func (c *Client) freshIDToken(ctx context.Context, u *StoredUser) (string, error) {
	claims, err := parseIDToken(u.IDToken)
	if err != nil || !claims.expiresBefore(c.now().Add(tokenLeeway)) || u.RefreshToken == "" {
		return u.IDToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", u.RefreshToken)

	var resp refreshResponse
	if err := c.post(ctx, c.tokenURL(), retryAll, "application/x-www-form-urlencoded", []byte(form.Encode()), &resp); err != nil {
		return "", err
	}

	refreshed := *u
	refreshed.IDToken = resp.IDToken
	if resp.RefreshToken != "" {
		refreshed.RefreshToken = resp.RefreshToken
	}
	if err := c.store.Save(ctx, &refreshed); err != nil {
		c.log.Warn(ctx, "persisting refreshed token failed", "uid", u.UID, "error", err)
	}

	c.mu.Lock()
	if c.current != nil && c.current.UID == refreshed.UID {
		c.current = &refreshed
	}
	c.mu.Unlock()

	c.log.Debug(ctx, "id token refreshed", "uid", u.UID)
	return refreshed.IDToken, nil
}

func (c *Client) currentUser() *StoredUser {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	u := *c.current
	return &u
}

// setCurrent swaps the current user and notifies listeners.
func (c *Client) setCurrent(u *StoredUser) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	c.current = u
	c.mu.Unlock()

	c.listeners.Notify(identityOf(u))
}

func (c *Client) accountsURL(method string) string {
	return fmt.Sprintf("%s/v1/accounts:%s?key=%s", c.cfg.Endpoint, method, url.QueryEscape(c.cfg.APIKey))
}

func (c *Client) tokenURL() string {
	return fmt.Sprintf("%s/v1/token?key=%s", c.cfg.SecureTokenEndpoint, url.QueryEscape(c.cfg.APIKey))
}

// retryPolicy says which failed attempts post may repeat.
type retryPolicy int

const (
	// retryAll repeats transport failures and 5xx answers.
	retryAll retryPolicy = iota
	// retryUnsent repeats only failures that happened before the request was
	// written, so the server cannot have acted on it.
	retryUnsent
)

func (c *Client) postJSON(ctx context.Context, endpoint string, policy retryPolicy, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.post(ctx, endpoint, policy, "application/json", payload, out)
}

// post sends payload and decodes a 200 answer into out. Every failure it
// returns is a *provider.Error.
func (c *Client) post(ctx context.Context, endpoint string, policy retryPolicy, contentType string, payload []byte, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "identitytoolkit "+operationName(endpoint),
		trace.WithSpanKind(trace.SpanKindClient))
	attempts := 0
	defer func() {
		span.SetAttributes(attribute.Int("http.attempts", attempts))
		if err != nil {
			if pe, ok := provider.AsError(err); ok {
				span.SetAttributes(attribute.Int("provider.code", int(pe.Code)))
				if pe.Reason != "" {
					span.SetAttributes(attribute.String("provider.reason", string(pe.Reason)))
				}
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	backoff := retry.WithMaxRetries(c.cfg.MaxRetries, retry.NewExponential(c.cfg.RetryBase))

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++

		var wrote atomic.Bool
		traced := httptrace.WithClientTrace(ctx, &httptrace.ClientTrace{
			WroteRequest: func(httptrace.WroteRequestInfo) { wrote.Store(true) },
		})
		retryable := func(err error) error {
			if policy == retryAll || !wrote.Load() {
				return retry.RetryableError(err)
			}
			return err
		}

		req, err := http.NewRequestWithContext(traced, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return networkError(err)
		}
		req.Header.Set("Content-Type", contentType)

		resp, err := c.http.Do(req)
		if err != nil {
			return retryable(networkError(err))
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return retryable(networkError(err))
		}

		switch {
		case resp.StatusCode >= http.StatusInternalServerError:
			return retryable(decodeError(resp.StatusCode, body))
		case resp.StatusCode != http.StatusOK:
			return decodeError(resp.StatusCode, body)
		}

		if err := json.Unmarshal(body, out); err != nil {
			pe := provider.NewError(provider.CodeInternalError, "")
			pe.Err = fmt.Errorf("decode response: %w", err)
			return pe
		}
		return nil
	})
	if err == nil {
		return nil
	}

	if _, ok := provider.AsError(err); ok {
		return err
	}
	// context cancellation surfaces from retry.Do unwrapped
	return networkError(err)
}

// operationName is the last path element of endpoint, e.g. "accounts:signUp".
func operationName(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "request"
	}
	return path.Base(u.Path)
}

func identityOf(u *StoredUser) *models.Identity {
	if u == nil {
		return nil
	}
	return &models.Identity{UID: u.UID, Email: u.Email, EmailVerified: u.EmailVerified}
}
