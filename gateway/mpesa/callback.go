package mpesa

import (
	"encoding/json"
	"fmt"
	"strconv"

	"tabeza/models"
)

// Daraja posts:
//
//	{"Body": {"stkCallback": {"MerchantRequestID": ..., "CheckoutRequestID": ...,
//	  "ResultCode": 0, "ResultDesc": "...", "CallbackMetadata": {"Item": [...]}}}}
//
// though bare {"stkCallback": {...}} and a bare callback object have
// been seen from intermediaries, so all three shapes are accepted.
type callbackEnvelope struct {
	Body struct {
		STKCallback *stkCallback `json:"stkCallback"`
	} `json:"Body"`
	STKCallback *stkCallback `json:"stkCallback"`

	// Bare callback object fields.
	stkCallback
}

type stkCallback struct {
	MerchantRequestID string           `json:"MerchantRequestID"`
	CheckoutRequestID string           `json:"CheckoutRequestID"`
	ResultCode        *int             `json:"ResultCode"`
	ResultDesc        string           `json:"ResultDesc"`
	AccountReference  string           `json:"AccountReference"`
	CallbackMetadata  callbackMetadata `json:"CallbackMetadata"`
}

type callbackMetadata struct {
	Item []callbackItem `json:"Item"`
}

type callbackItem struct {
	Name  string      `json:"Name"`
	Value interface{} `json:"Value"`
}

// CallbackResult is the normalized shape of a gateway notification.
type CallbackResult struct {
	ResultCode        int
	ResultDesc        string
	MerchantRequestID string
	CheckoutRequestID string
	Amount            float64
	ReceiptNumber     string
	PhoneNumber       string
	AccountReference  string
}

// Map renders the result for storage in payment metadata.
func (r CallbackResult) Map() models.Metadata {
	return models.Metadata{
		"result_code":         r.ResultCode,
		"result_desc":         r.ResultDesc,
		"merchant_request_id": r.MerchantRequestID,
		"checkout_request_id": r.CheckoutRequestID,
		"amount":              r.Amount,
		"mpesa_receipt":       r.ReceiptNumber,
		"phone":               r.PhoneNumber,
		"account_reference":   r.AccountReference,
	}
}

// ParseCallback validates the minimal required shape of a webhook body
// up front and normalizes it. The account reference is taken from the
// top-level field when present, else from the metadata items.
func ParseCallback(data []byte) (*CallbackResult, error) {
	var env callbackEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, models.CallbackParseError{Reason: err.Error()}
	}

	cb := env.Body.STKCallback
	if cb == nil {
		cb = env.STKCallback
	}
	if cb == nil {
		cb = &env.stkCallback
	}
	if cb.ResultCode == nil {
		return nil, models.CallbackParseError{Reason: "no stkCallback result in payload"}
	}

	out := &CallbackResult{
		ResultCode:        *cb.ResultCode,
		ResultDesc:        cb.ResultDesc,
		MerchantRequestID: cb.MerchantRequestID,
		CheckoutRequestID: cb.CheckoutRequestID,
		AccountReference:  cb.AccountReference,
	}
	for _, item := range cb.CallbackMetadata.Item {
		switch item.Name {
		case "Amount":
			if f, ok := toFloat(item.Value); ok {
				out.Amount = f
			}
		case "MpesaReceiptNumber":
			out.ReceiptNumber = toString(item.Value)
		case "PhoneNumber":
			out.PhoneNumber = toString(item.Value)
		case "AccountReference":
			if out.AccountReference == "" {
				out.AccountReference = toString(item.Value)
			}
		}
	}
	return out, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func toString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		// Phone numbers arrive as JSON numbers; render them without
		// the exponent form %v would pick.
		return strconv.FormatFloat(s, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}
