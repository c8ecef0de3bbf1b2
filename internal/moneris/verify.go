package moneris

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"monerispay/internal/pkg/httpclient"
)

// approvalThreshold is the gateway's contract: a response_code below 50 is an
// approval, 50 and above is a decline.
const approvalThreshold = 50

// Verification failures. All of them fail closed: no approval is ever derived
// from a response that could not be fully parsed.
var (
	ErrEmptyResponse       = errors.New("moneris: empty verification response")
	ErrMalformedResponse   = errors.New("moneris: malformed verification response")
	ErrMissingResponseCode = errors.New("moneris: verification response has no response_code")
)

// Verification is the parsed outcome of a verification call. Approved is
// derived solely from response_code; Values holds every child element of the
// gateway's <response> document keyed by lower-cased tag name.
type Verification struct {
	Approved bool
	Code     int
	Values   map[string]string
}

// TransactionNumber returns the gateway's transaction identifier, when present.
func (v *Verification) TransactionNumber() (string, bool) {
	txn, ok := v.Values["txn_num"]
	return txn, ok && txn != ""
}

// Verifier performs the trusted server-to-server verification call.
type Verifier struct {
	client *httpclient.Client
	logger *zap.Logger
}

// NewVerifier creates a verifier with a bounded request timeout. The gateway
// has no retry semantics here: one callback, one verification call.
func NewVerifier(timeout time.Duration, logger *zap.Logger) *Verifier {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Verifier{
		client: httpclient.New().WithTimeout(timeout),
		logger: logger,
	}
}

// Verify confirms the true outcome of a transaction with the gateway,
// independent of anything the browser callback carried. A decline is a valid
// result (Approved=false, nil error); every transport or parse problem is an
// error and never an approval.
func (v *Verifier) Verify(ctx context.Context, cfg Config, transactionKey string) (*Verification, error) {
	body, err := v.client.PostForm(ctx, verifyURL(cfg), map[string]string{
		"ps_store_id":    cfg.StoreID,
		"hpp_key":        cfg.HPPKey,
		"transactionKey": transactionKey,
	})
	if err != nil {
		return nil, fmt.Errorf("moneris: verification request: %w", err)
	}

	decoded, err := url.QueryUnescape(string(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if strings.TrimSpace(decoded) == "" {
		return nil, ErrEmptyResponse
	}

	values, err := parseVerifyResponse(decoded)
	if err != nil {
		return nil, err
	}

	raw, ok := values["response_code"]
	if !ok {
		return nil, ErrMissingResponseCode
	}
	code, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: response_code %q is not numeric", ErrMalformedResponse, raw)
	}

	result := &Verification{
		Approved: code < approvalThreshold,
		Code:     code,
		Values:   values,
	}
	v.logger.Debug("moneris verification parsed",
		zap.Int("response_code", code),
		zap.Bool("approved", result.Approved),
	)
	return result, nil
}

type verifyField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type verifyResponse struct {
	XMLName xml.Name      `xml:"response"`
	Fields  []verifyField `xml:",any"`
}

// parseVerifyResponse flattens the <response> document into a map, normalizing
// keys to lower case so lookups never depend on the gateway's casing.
func parseVerifyResponse(body string) (map[string]string, error) {
	var resp verifyResponse
	if err := xml.Unmarshal([]byte(body), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(resp.Fields) == 0 {
		return nil, fmt.Errorf("%w: response element has no children", ErrMalformedResponse)
	}

	values := make(map[string]string, len(resp.Fields))
	for _, f := range resp.Fields {
		values[strings.ToLower(f.XMLName.Local)] = strings.TrimSpace(f.Value)
	}
	return values, nil
}
