package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"tabeza/models"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	tokenPath   = "/oauth/v1/generate?grant_type=client_credentials"
	stkPushPath = "/mpesa/stkpush/v1/processrequest"

	tokenCacheKey = "mpesa:access_token"
	// Daraja tokens live ~3600s; the cached copy is dropped a minute
	// early so an expired token is never served.
	tokenTTLMargin = 60 * time.Second
)

type Config struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	// GlobalPasskey is the fallback when a venue has no passkey of its own.
	GlobalPasskey string
	CallbackURL   string
	Timeout       time.Duration
}

// Client talks to the Daraja gateway. The redis cache is optional: with
// a nil client every request fetches a fresh token.
type Client struct {
	cfg   Config
	http  *http.Client
	cache *redis.Client
	l     *zap.Logger
}

func NewClient(cfg Config, cache *redis.Client) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: cfg.Timeout},
		cache: cache,
		l:     zap.L().Named("mpesa_gateway"),
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// AccessToken returns a bearer token for the Daraja API, serving from
// the cache when a live one is held there.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	if c.cache != nil {
		if token, err := c.cache.Get(ctx, tokenCacheKey).Result(); err == nil && token != "" {
			return token, nil
		}
	}

	if c.cfg.ConsumerKey == "" || c.cfg.ConsumerSecret == "" {
		return "", models.GatewayError{Op: "authenticate", Message: "missing consumer key/secret"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+tokenPath, nil)
	if err != nil {
		return "", errors.Wrap(err, "build token request")
	}
	basic := base64.StdEncoding.EncodeToString([]byte(c.cfg.ConsumerKey + ":" + c.cfg.ConsumerSecret))
	req.Header.Set("Authorization", "Basic "+basic)

	res, err := c.http.Do(req)
	if err != nil {
		c.l.Warn("token: request failed", zap.Error(err))
		return "", models.GatewayError{Op: "authenticate", Message: err.Error()}
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", models.GatewayError{Op: "authenticate", Message: "token endpoint returned " + res.Status}
	}

	var tr tokenResponse
	if err := json.NewDecoder(res.Body).Decode(&tr); err != nil {
		c.l.Warn("token: bad response body", zap.Error(err))
		return "", models.GatewayError{Op: "authenticate", Message: "unparseable token response"}
	}
	if tr.AccessToken == "" {
		return "", models.GatewayError{Op: "authenticate", Message: "empty access token"}
	}

	if c.cache != nil {
		ttl := time.Hour
		if secs, err := strconv.Atoi(tr.ExpiresIn); err == nil && secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}
		if ttl > tokenTTLMargin {
			ttl -= tokenTTLMargin
			if err := c.cache.Set(ctx, tokenCacheKey, tr.AccessToken, ttl).Err(); err != nil {
				c.l.Warn("token: cache write failed", zap.Error(err))
			}
		}
	}
	return tr.AccessToken, nil
}

type STKPushRequest struct {
	ShortCode string
	// Passkey overrides the global one when the venue carries its own.
	Passkey          string
	Amount           float64
	PhoneNumber      string
	AccountReference string
	Description      string
}

type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`

	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

type stkPushBody struct {
	BusinessShortCode string  `json:"BusinessShortCode"`
	Password          string  `json:"Password"`
	Timestamp         string  `json:"Timestamp"`
	TransactionType   string  `json:"TransactionType"`
	Amount            float64 `json:"Amount"`
	PartyA            string  `json:"PartyA"`
	PartyB            string  `json:"PartyB"`
	PhoneNumber       string  `json:"PhoneNumber"`
	CallBackURL       string  `json:"CallBackURL"`
	AccountReference  string  `json:"AccountReference"`
	TransactionDesc   string  `json:"TransactionDesc"`
}

// STKPush sends a push-payment request. The gateway echoes the account
// reference back in its callback, which is how the pending payment row
// is found again. One transport-level retry is allowed within the same
// attempt; a rejection from the gateway is never retried.
func (c *Client) STKPush(ctx context.Context, req STKPushRequest) (*STKPushResponse, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	passkey := req.Passkey
	if passkey == "" {
		passkey = c.cfg.GlobalPasskey
	}
	if passkey == "" {
		return nil, models.GatewayError{Op: "stkpush", Message: "missing passkey (per-venue or global)"}
	}

	tstamp := time.Now().UTC().Format("20060102150405")
	password := base64.StdEncoding.EncodeToString([]byte(req.ShortCode + passkey + tstamp))

	desc := req.Description
	if desc == "" {
		desc = "Tabeza payment"
	}
	body, err := json.Marshal(stkPushBody{
		BusinessShortCode: req.ShortCode,
		Password:          password,
		Timestamp:         tstamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            req.Amount,
		PartyA:            req.PhoneNumber,
		PartyB:            req.ShortCode,
		PhoneNumber:       req.PhoneNumber,
		CallBackURL:       c.cfg.CallbackURL,
		AccountReference:  req.AccountReference,
		TransactionDesc:   desc,
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal stk push body")
	}

	var res *http.Response
	for attempt := 0; attempt < 2; attempt++ {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+stkPushPath, bytes.NewReader(body))
		if err != nil {
			return nil, errors.Wrap(err, "build stk push request")
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
		httpReq.Header.Set("Content-Type", "application/json")

		res, err = c.http.Do(httpReq)
		if err == nil {
			break
		}
		c.l.Warn("stkpush: request failed",
			zap.Int("attempt", attempt+1),
			zap.String("reference", req.AccountReference),
			zap.Error(err),
		)
		if attempt == 1 || ctx.Err() != nil {
			return nil, models.GatewayError{Op: "stkpush", Message: err.Error()}
		}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, models.GatewayError{Op: "stkpush", Message: "failed reading gateway response"}
	}

	var sr STKPushResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		c.l.Warn("stkpush: bad response body",
			zap.String("body", string(raw)),
			zap.Error(err),
		)
		return nil, models.GatewayError{Op: "stkpush", Message: "unparseable gateway response"}
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 || sr.ErrorCode != "" {
		msg := sr.ErrorMessage
		if msg == "" {
			msg = "gateway returned " + res.Status
		}
		return nil, models.GatewayError{Op: "stkpush", Message: msg}
	}
	return &sr, nil
}
