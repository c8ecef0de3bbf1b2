package moneris

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// roundTripFunc lets tests serve canned gateway responses.
type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestVerifier(rt roundTripFunc) *Verifier {
	v := NewVerifier(2*time.Second, zap.NewNop())
	v.client.WithTransport(rt)
	return v
}

func gatewayResponse(body string) roundTripFunc {
	return func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewBufferString(body)),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	}
}

func encodedXML(inner string) string {
	return url.QueryEscape("<response>" + inner + "</response>")
}

func TestVerifier_Verify(t *testing.T) {
	cfg := Config{StoreID: "store1", HPPKey: "secret", UseSandbox: true}
	ctx := context.Background()

	t.Run("approval codes below 50", func(t *testing.T) {
		for _, code := range []int{0, 1, 27, 49} {
			v := newTestVerifier(gatewayResponse(encodedXML(
				fmt.Sprintf("<response_code>%d</response_code><txn_num>123456</txn_num>", code))))

			result, err := v.Verify(ctx, cfg, "abc123")
			require.NoError(t, err, "code %d", code)
			assert.True(t, result.Approved, "code %d", code)
			assert.Equal(t, code, result.Code)

			txn, ok := result.TransactionNumber()
			require.True(t, ok)
			assert.Equal(t, "123456", txn)
		}
	})

	t.Run("decline codes at and above 50", func(t *testing.T) {
		for _, code := range []int{50, 51, 99, 2001} {
			v := newTestVerifier(gatewayResponse(encodedXML(
				fmt.Sprintf("<response_code>%d</response_code>", code))))

			result, err := v.Verify(ctx, cfg, "abc123")
			require.NoError(t, err, "code %d", code)
			assert.False(t, result.Approved, "code %d", code)
		}
	})

	t.Run("keys are lower-cased", func(t *testing.T) {
		v := newTestVerifier(gatewayResponse(encodedXML(
			"<Response_Code>0</Response_Code><TXN_NUM>654321</TXN_NUM>")))

		result, err := v.Verify(ctx, cfg, "abc123")
		require.NoError(t, err)
		assert.True(t, result.Approved)

		txn, ok := result.TransactionNumber()
		require.True(t, ok)
		assert.Equal(t, "654321", txn)
	})

	t.Run("unreachable gateway", func(t *testing.T) {
		v := newTestVerifier(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		})

		result, err := v.Verify(ctx, cfg, "abc123")
		require.Error(t, err)
		assert.Nil(t, result)
	})

	t.Run("empty body", func(t *testing.T) {
		v := newTestVerifier(gatewayResponse(""))

		_, err := v.Verify(ctx, cfg, "abc123")
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("unparseable XML", func(t *testing.T) {
		v := newTestVerifier(gatewayResponse("not-xml-at-all"))

		_, err := v.Verify(ctx, cfg, "abc123")
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("wrong root element", func(t *testing.T) {
		v := newTestVerifier(gatewayResponse(url.QueryEscape(
			"<result><response_code>0</response_code></result>")))

		_, err := v.Verify(ctx, cfg, "abc123")
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("response with no children", func(t *testing.T) {
		v := newTestVerifier(gatewayResponse(url.QueryEscape("<response></response>")))

		_, err := v.Verify(ctx, cfg, "abc123")
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("missing response_code", func(t *testing.T) {
		v := newTestVerifier(gatewayResponse(encodedXML("<txn_num>123456</txn_num>")))

		_, err := v.Verify(ctx, cfg, "abc123")
		assert.ErrorIs(t, err, ErrMissingResponseCode)
	})

	t.Run("non-numeric response_code", func(t *testing.T) {
		v := newTestVerifier(gatewayResponse(encodedXML("<response_code>null</response_code>")))

		_, err := v.Verify(ctx, cfg, "abc123")
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("request carries credentials and transaction key", func(t *testing.T) {
		var captured url.Values
		v := newTestVerifier(func(req *http.Request) (*http.Response, error) {
			body, _ := io.ReadAll(req.Body)
			captured, _ = url.ParseQuery(string(body))
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewBufferString(encodedXML("<response_code>0</response_code>"))),
				Header:     make(http.Header),
				Request:    req,
			}, nil
		})

		_, err := v.Verify(ctx, cfg, "txnkey-1")
		require.NoError(t, err)
		assert.Equal(t, "store1", captured.Get("ps_store_id"))
		assert.Equal(t, "secret", captured.Get("hpp_key"))
		assert.Equal(t, "txnkey-1", captured.Get("transactionKey"))
	})
}

func TestParseVerifyResponse(t *testing.T) {
	values, err := parseVerifyResponse("<response><response_code>0</response_code><txn_num>123456</txn_num></response>")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"response_code": "0", "txn_num": "123456"}, values)
}
