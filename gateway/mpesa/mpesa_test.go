package mpesa

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"tabeza/models"

	"github.com/stretchr/testify/require"
)

type fakeDaraja struct {
	tokenCalls int64
	stkCalls   int64
	lastAuth   string
	lastBody   stkPushBody

	tokenStatus int
	stkStatus   int
	stkBody     string
}

func (f *fakeDaraja) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&f.tokenCalls, 1)
		f.lastAuth = r.Header.Get("Authorization")
		if f.tokenStatus != 0 {
			w.WriteHeader(f.tokenStatus)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "test-token",
			"expires_in":   "3599",
		})
	})
	mux.HandleFunc("/mpesa/stkpush/v1/processrequest", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&f.stkCalls, 1)
		f.lastAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&f.lastBody)
		if f.stkStatus != 0 {
			w.WriteHeader(f.stkStatus)
		}
		if f.stkBody != "" {
			w.Write([]byte(f.stkBody))
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"MerchantRequestID":   "mr-7",
			"CheckoutRequestID":   "cr-7",
			"ResponseCode":        "0",
			"ResponseDescription": "Success. Request accepted for processing",
			"CustomerMessage":     "Success. Request accepted for processing",
		})
	})
	return mux
}

func newTestClient(t *testing.T, daraja *fakeDaraja) *Client {
	t.Helper()
	srv := httptest.NewServer(daraja.handler())
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:        srv.URL,
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		CallbackURL:    "https://example.com/api/payments/mpesa/callback",
	}, nil)
}

func TestAccessTokenBasicAuth(t *testing.T) {
	daraja := &fakeDaraja{}
	c := newTestClient(t, daraja)

	token, err := c.AccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "test-token", token)

	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("key:secret"))
	require.Equal(t, want, daraja.lastAuth)
}

func TestAccessTokenFetchedPerRequestWithoutCache(t *testing.T) {
	daraja := &fakeDaraja{}
	c := newTestClient(t, daraja)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := c.AccessToken(ctx)
		require.NoError(t, err)
	}
	require.EqualValues(t, 3, daraja.tokenCalls)
}

func TestAccessTokenEndpointFailure(t *testing.T) {
	daraja := &fakeDaraja{tokenStatus: http.StatusUnauthorized}
	c := newTestClient(t, daraja)

	_, err := c.AccessToken(context.Background())
	require.IsType(t, models.GatewayError{}, err)
	require.Contains(t, err.Error(), "authenticate")
}

func TestAccessTokenMissingCredentials(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://unused"}, nil)
	_, err := c.AccessToken(context.Background())
	require.IsType(t, models.GatewayError{}, err)
}

func TestSTKPushRequestShape(t *testing.T) {
	daraja := &fakeDaraja{}
	c := newTestClient(t, daraja)

	res, err := c.STKPush(context.Background(), STKPushRequest{
		ShortCode:        "174379",
		Passkey:          "passkey",
		Amount:           900,
		PhoneNumber:      "254712345678",
		AccountReference: "V174379-Tabc123-0a1b2c3d",
	})
	require.NoError(t, err)
	require.Equal(t, "cr-7", res.CheckoutRequestID)
	require.Equal(t, "0", res.ResponseCode)

	body := daraja.lastBody
	require.Equal(t, "174379", body.BusinessShortCode)
	require.Equal(t, "CustomerPayBillOnline", body.TransactionType)
	require.Equal(t, 900.0, body.Amount)
	require.Equal(t, "254712345678", body.PartyA)
	require.Equal(t, "174379", body.PartyB)
	require.Equal(t, "https://example.com/api/payments/mpesa/callback", body.CallBackURL)
	require.Equal(t, "V174379-Tabc123-0a1b2c3d", body.AccountReference)
	require.Equal(t, "Tabeza payment", body.TransactionDesc)
	require.Equal(t, "Bearer test-token", daraja.lastAuth)

	// Password is base64(shortcode + passkey + timestamp).
	decoded, err := base64.StdEncoding.DecodeString(body.Password)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(decoded), "174379passkey"))
	require.Equal(t, body.Timestamp, strings.TrimPrefix(string(decoded), "174379passkey"))
	require.Len(t, body.Timestamp, 14)
}

func TestSTKPushGlobalPasskeyFallback(t *testing.T) {
	daraja := &fakeDaraja{}
	srv := httptest.NewServer(daraja.handler())
	t.Cleanup(srv.Close)
	c := NewClient(Config{
		BaseURL:        srv.URL,
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		GlobalPasskey:  "global",
	}, nil)

	_, err := c.STKPush(context.Background(), STKPushRequest{
		ShortCode:        "600000",
		Amount:           10,
		PhoneNumber:      "254700000000",
		AccountReference: "ref",
	})
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(daraja.lastBody.Password)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(decoded), "600000global"))
}

func TestSTKPushMissingPasskey(t *testing.T) {
	daraja := &fakeDaraja{}
	c := newTestClient(t, daraja)

	_, err := c.STKPush(context.Background(), STKPushRequest{
		ShortCode:   "174379",
		Amount:      10,
		PhoneNumber: "254700000000",
	})
	require.IsType(t, models.GatewayError{}, err)
	require.EqualValues(t, 0, daraja.stkCalls)
}

func TestSTKPushGatewayRejection(t *testing.T) {
	daraja := &fakeDaraja{
		stkStatus: http.StatusBadRequest,
		stkBody:   `{"requestId": "1234", "errorCode": "400.002.02", "errorMessage": "Bad Request - Invalid PhoneNumber"}`,
	}
	c := newTestClient(t, daraja)

	_, err := c.STKPush(context.Background(), STKPushRequest{
		ShortCode:        "174379",
		Passkey:          "passkey",
		Amount:           10,
		PhoneNumber:      "bad",
		AccountReference: "ref",
	})
	require.IsType(t, models.GatewayError{}, err)
	require.Contains(t, err.Error(), "Invalid PhoneNumber")
	// A rejection is final: no second attempt.
	require.EqualValues(t, 1, daraja.stkCalls)
}

func TestSTKPushUnparseableResponse(t *testing.T) {
	daraja := &fakeDaraja{stkBody: "<html>gateway timeout</html>"}
	c := newTestClient(t, daraja)

	_, err := c.STKPush(context.Background(), STKPushRequest{
		ShortCode:        "174379",
		Passkey:          "passkey",
		Amount:           10,
		PhoneNumber:      "254700000000",
		AccountReference: "ref",
	})
	require.IsType(t, models.GatewayError{}, err)
}
