package mpesa

import (
	"testing"

	"tabeza/models"

	"github.com/stretchr/testify/require"
)

const darajaSuccess = `{
	"Body": {
		"stkCallback": {
			"MerchantRequestID": "29115-34620561-1",
			"CheckoutRequestID": "ws_CO_191220191020363925",
			"ResultCode": 0,
			"ResultDesc": "The service request is processed successfully.",
			"CallbackMetadata": {
				"Item": [
					{"Name": "Amount", "Value": 1.00},
					{"Name": "MpesaReceiptNumber", "Value": "NLJ7RT61SV"},
					{"Name": "TransactionDate", "Value": 20191219102115},
					{"Name": "PhoneNumber", "Value": 254708374149},
					{"Name": "AccountReference", "Value": "V174379-Tabc123-0a1b2c3d"}
				]
			}
		}
	}
}`

func TestParseCallbackEnvelope(t *testing.T) {
	result, err := ParseCallback([]byte(darajaSuccess))
	require.NoError(t, err)
	require.Equal(t, 0, result.ResultCode)
	require.Equal(t, "ws_CO_191220191020363925", result.CheckoutRequestID)
	require.Equal(t, "29115-34620561-1", result.MerchantRequestID)
	require.Equal(t, 1.0, result.Amount)
	require.Equal(t, "NLJ7RT61SV", result.ReceiptNumber)
	require.Equal(t, "254708374149", result.PhoneNumber)
	require.Equal(t, "V174379-Tabc123-0a1b2c3d", result.AccountReference)
}

func TestParseCallbackBareShapes(t *testing.T) {
	bare := `{"stkCallback": {"ResultCode": 1032, "ResultDesc": "Request cancelled by user"}}`
	result, err := ParseCallback([]byte(bare))
	require.NoError(t, err)
	require.Equal(t, 1032, result.ResultCode)
	require.Equal(t, "Request cancelled by user", result.ResultDesc)

	naked := `{"ResultCode": 0, "ResultDesc": "ok", "AccountReference": "V1-T2-ff"}`
	result, err = ParseCallback([]byte(naked))
	require.NoError(t, err)
	require.Equal(t, 0, result.ResultCode)
	require.Equal(t, "V1-T2-ff", result.AccountReference)
}

func TestParseCallbackTopLevelReferenceWins(t *testing.T) {
	body := `{
		"Body": {
			"stkCallback": {
				"ResultCode": 0,
				"AccountReference": "top-level",
				"CallbackMetadata": {"Item": [{"Name": "AccountReference", "Value": "buried"}]}
			}
		}
	}`
	result, err := ParseCallback([]byte(body))
	require.NoError(t, err)
	require.Equal(t, "top-level", result.AccountReference)
}

func TestParseCallbackRejectsJunk(t *testing.T) {
	for _, body := range []string{
		"not json at all",
		"{}",
		`{"Body": {}}`,
		`{"Body": {"stkCallback": {"ResultDesc": "no code"}}}`,
	} {
		_, err := ParseCallback([]byte(body))
		require.Error(t, err, "body %q", body)
		require.IsType(t, models.CallbackParseError{}, err)
	}
}

func TestCallbackResultMap(t *testing.T) {
	result, err := ParseCallback([]byte(darajaSuccess))
	require.NoError(t, err)

	m := result.Map()
	require.Equal(t, 0, m["result_code"])
	require.Equal(t, "NLJ7RT61SV", m["mpesa_receipt"])
	require.Equal(t, "V174379-Tabc123-0a1b2c3d", m["account_reference"])
}
