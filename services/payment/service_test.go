package payment

import (
	"context"
	"strings"
	"testing"

	"tabeza/database"
	orderRepo "tabeza/database/repository/order"
	paymentRepo "tabeza/database/repository/payment"
	tabRepo "tabeza/database/repository/tab"
	venueRepo "tabeza/database/repository/venue"
	"tabeza/gateway/mpesa"
	"tabeza/models"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	fn    func(ctx context.Context, req mpesa.STKPushRequest) (*mpesa.STKPushResponse, error)
	calls []mpesa.STKPushRequest
}

func (g *fakeGateway) STKPush(ctx context.Context, req mpesa.STKPushRequest) (*mpesa.STKPushResponse, error) {
	g.calls = append(g.calls, req)
	if g.fn != nil {
		return g.fn(ctx, req)
	}
	return &mpesa.STKPushResponse{
		MerchantRequestID:   "mr-1",
		CheckoutRequestID:   "cr-1",
		ResponseCode:        "0",
		ResponseDescription: "Success. Request accepted for processing",
	}, nil
}

type fixture struct {
	db       *sqlx.DB
	svc      *DefaultPaymentService
	gateway  *fakeGateway
	payments paymentRepo.PaymentRepository
	orders   orderRepo.OrderRepository
	tabs     tabRepo.TabRepository
	venues   venueRepo.VenueRepository
	venueID  string
	tabID    string
}

func newFixture(t *testing.T, venue models.Venue) *fixture {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.EnsureSchema(db))

	ctx := context.Background()
	venues := venueRepo.NewSQLVenueRepo(db)
	venueID, err := venues.Create(ctx, venue)
	require.NoError(t, err)

	tabs := tabRepo.NewSQLTabRepo(db)
	tabID, err := tabs.Create(ctx, models.Tab{VenueID: venueID, TabNumber: 1})
	require.NoError(t, err)

	payments := paymentRepo.NewSQLPaymentRepo(db)
	gw := &fakeGateway{}
	return &fixture{
		db:       db,
		svc:      NewPaymentService(payments, tabs, venues, gw),
		gateway:  gw,
		payments: payments,
		orders:   orderRepo.NewSQLOrderRepo(db),
		tabs:     tabs,
		venues:   venues,
		venueID:  venueID,
		tabID:    tabID,
	}
}

func mpesaVenue() models.Venue {
	return models.Venue{
		Name:            "Test Bar",
		MpesaTillNumber: "174379",
		MpesaPasskey:    "passkey",
		MpesaEnabled:    true,
	}
}

func TestInitiateMpesa(t *testing.T) {
	f := newFixture(t, mpesaVenue())
	ctx := context.Background()

	p, err := f.svc.InitiateMpesa(ctx, InitiateMpesaRequest{
		TabID:       f.tabID,
		Amount:      900,
		PhoneNumber: "254712345678",
	})
	require.NoError(t, err)
	require.Equal(t, models.PaymentPending, p.Status)
	require.Equal(t, models.MethodMpesa, p.Method)
	require.Equal(t, 900.0, p.Amount)
	require.True(t, strings.HasPrefix(p.Reference, "V"), "reference %q", p.Reference)
	require.Contains(t, p.Reference, "-T")

	require.Len(t, f.gateway.calls, 1)
	call := f.gateway.calls[0]
	require.Equal(t, "174379", call.ShortCode)
	require.Equal(t, "passkey", call.Passkey)
	require.Equal(t, p.Reference, call.AccountReference)

	require.Equal(t, "254712345678", p.Metadata["phone"])
	stk, ok := p.Metadata["stk_request"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "cr-1", stk["checkout_request_id"])
}

func TestPendingRowExistsBeforeGatewayCall(t *testing.T) {
	f := newFixture(t, mpesaVenue())
	ctx := context.Background()

	f.gateway.fn = func(ctx context.Context, req mpesa.STKPushRequest) (*mpesa.STKPushResponse, error) {
		// The reconciliation contract: by the time the gateway sees the
		// request, the pending row is already on disk.
		p, err := f.payments.LatestByReference(ctx, req.AccountReference)
		require.NoError(t, err)
		require.Equal(t, models.PaymentPending, p.Status)
		return &mpesa.STKPushResponse{CheckoutRequestID: "cr-2"}, nil
	}

	_, err := f.svc.InitiateMpesa(ctx, InitiateMpesaRequest{
		TabID:       f.tabID,
		Amount:      100,
		PhoneNumber: "254700000001",
	})
	require.NoError(t, err)
}

func TestInitiateMpesaGatewayFailure(t *testing.T) {
	f := newFixture(t, mpesaVenue())
	ctx := context.Background()

	f.gateway.fn = func(ctx context.Context, req mpesa.STKPushRequest) (*mpesa.STKPushResponse, error) {
		return nil, models.GatewayError{Op: "stkpush", Message: "Invalid PhoneNumber"}
	}

	_, err := f.svc.InitiateMpesa(ctx, InitiateMpesaRequest{
		TabID:       f.tabID,
		Amount:      500,
		PhoneNumber: "bad",
	})
	require.IsType(t, models.GatewayError{}, err)

	// The attempt stands as a failed row with the error captured.
	rows, listErr := f.payments.ListByTab(ctx, f.tabID)
	require.NoError(t, listErr)
	require.Len(t, rows, 1)
	require.Equal(t, models.PaymentFailed, rows[0].Status)
	require.Equal(t, "gateway stkpush failed: Invalid PhoneNumber", rows[0].Metadata["mpesa_error"])
}

func TestInitiateMpesaConfigErrors(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		f := newFixture(t, models.Venue{Name: "Cash Only", MpesaTillNumber: "174379"})
		_, err := f.svc.InitiateMpesa(context.Background(), InitiateMpesaRequest{
			TabID: f.tabID, Amount: 100, PhoneNumber: "254712345678",
		})
		require.IsType(t, models.ConfigurationError{}, err)
		require.Empty(t, f.gateway.calls)
	})
	t.Run("NoShortcode", func(t *testing.T) {
		f := newFixture(t, models.Venue{Name: "Unset", MpesaEnabled: true})
		_, err := f.svc.InitiateMpesa(context.Background(), InitiateMpesaRequest{
			TabID: f.tabID, Amount: 100, PhoneNumber: "254712345678",
		})
		require.IsType(t, models.ConfigurationError{}, err)
		require.Empty(t, f.gateway.calls)
	})
}

func TestInitiateMpesaValidation(t *testing.T) {
	f := newFixture(t, mpesaVenue())
	ctx := context.Background()

	cases := []InitiateMpesaRequest{
		{Amount: 100, PhoneNumber: "254712345678"},
		{TabID: f.tabID, PhoneNumber: "254712345678"},
		{TabID: f.tabID, Amount: -5, PhoneNumber: "254712345678"},
		{TabID: f.tabID, Amount: 100},
	}
	for _, req := range cases {
		_, err := f.svc.InitiateMpesa(ctx, req)
		require.IsType(t, models.ValidationError{}, err)
	}
	require.Empty(t, f.gateway.calls)
}

func TestInitiateMpesaClosedTab(t *testing.T) {
	f := newFixture(t, mpesaVenue())
	ctx := context.Background()
	require.NoError(t, f.tabs.SetStatus(ctx, f.tabID, models.TabClosed))

	_, err := f.svc.InitiateMpesa(ctx, InitiateMpesaRequest{
		TabID: f.tabID, Amount: 100, PhoneNumber: "254712345678",
	})
	require.IsType(t, models.InvalidStateError{}, err)
}

func TestReferencesAreUniquePerAttempt(t *testing.T) {
	f := newFixture(t, mpesaVenue())
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		p, err := f.svc.InitiateMpesa(ctx, InitiateMpesaRequest{
			TabID: f.tabID, Amount: 100, PhoneNumber: "254712345678",
		})
		require.NoError(t, err)
		require.False(t, seen[p.Reference], "reference %q reused", p.Reference)
		seen[p.Reference] = true
	}
}

func TestRecordCashPayment(t *testing.T) {
	f := newFixture(t, models.Venue{Name: "Cash Only"})
	ctx := context.Background()

	p, err := f.svc.Record(ctx, RecordPaymentRequest{
		TabID:  f.tabID,
		Amount: 450,
		Method: models.MethodCash,
	})
	require.NoError(t, err)
	require.Equal(t, models.PaymentSuccess, p.Status)
	require.Equal(t, models.MethodCash, p.Method)

	_, err = f.svc.Record(ctx, RecordPaymentRequest{TabID: f.tabID, Amount: 450, Method: models.MethodMpesa})
	require.IsType(t, models.ValidationError{}, err)
}
