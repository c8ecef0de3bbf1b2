package moneris

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monerispay/internal/models"
)

func testOrder() *models.Order {
	shippingID := uint(12)
	return &models.Order{
		ID:                42,
		CustomerID:        7,
		OrderTotal:        49.99,
		PaymentStatus:     models.OrderStatusPending,
		BillingAddressID:  11,
		ShippingAddressID: &shippingID,
	}
}

func testBilling() *models.Address {
	return &models.Address{
		ID:            11,
		FirstName:     "Ada",
		LastName:      "Lovelace",
		Company:       "Analytical Engines Ltd",
		Email:         "ada@example.com",
		Phone:         "555-0100",
		Fax:           "555-0101",
		Address1:      "12 Main St",
		Address2:      "Suite 3",
		City:          "Toronto",
		StateProvince: "Ontario",
		Country:       "Canada",
		ZipPostalCode: "M5H 2N2",
	}
}

func testShipping() *models.Address {
	return &models.Address{
		ID:            12,
		FirstName:     "Grace",
		LastName:      "Hopper",
		Address1:      "1 Harbour Rd",
		City:          "Halifax",
		StateProvince: "Nova Scotia",
		Country:       "Canada",
		ZipPostalCode: "B3H 1A1",
	}
}

func TestBuildRedirectFields(t *testing.T) {
	cfg := Config{StoreID: "store1", HPPKey: "secret", UseSandbox: false}

	t.Run("required fields in production", func(t *testing.T) {
		fields := BuildRedirectFields(cfg, testOrder(), testBilling(), nil)

		for name, want := range map[string]string{
			"ps_store_id":   "store1",
			"hpp_key":       "secret",
			"charge_total":  "49.99",
			"cust_id":       "7",
			"order_id":      "42",
			"email":         "ada@example.com",
			"rvar_order_id": "42",
		} {
			got, ok := fields.Get(name)
			require.True(t, ok, "missing field %s", name)
			assert.Equal(t, want, got, "field %s", name)
		}
	})

	t.Run("sandbox omits numeric order id", func(t *testing.T) {
		sandbox := cfg
		sandbox.UseSandbox = true
		fields := BuildRedirectFields(sandbox, testOrder(), testBilling(), nil)

		_, ok := fields.Get("order_id")
		assert.False(t, ok)

		// The reference used by the callback is still present.
		ref, ok := fields.Get("rvar_order_id")
		require.True(t, ok)
		assert.Equal(t, "42", ref)
	})

	t.Run("absent shipping address emits no ship fields", func(t *testing.T) {
		fields := BuildRedirectFields(cfg, testOrder(), testBilling(), nil)
		for _, f := range fields {
			assert.False(t, strings.HasPrefix(f.Name, "ship_"), "unexpected field %s", f.Name)
		}
	})

	t.Run("shipping block", func(t *testing.T) {
		fields := BuildRedirectFields(cfg, testOrder(), testBilling(), testShipping())

		got, ok := fields.Get("ship_address_one")
		require.True(t, ok)
		assert.Equal(t, "1: 1 Harbour Rd 2: ", got)

		got, ok = fields.Get("ship_state_or_province")
		require.True(t, ok)
		assert.Equal(t, "Nova Scotia", got)
	})

	t.Run("billing block", func(t *testing.T) {
		fields := BuildRedirectFields(cfg, testOrder(), testBilling(), nil)

		got, ok := fields.Get("bill_address_one")
		require.True(t, ok)
		assert.Equal(t, "1: 12 Main St 2: Suite 3", got)

		got, ok = fields.Get("bill_company_name")
		require.True(t, ok)
		assert.Equal(t, "Analytical Engines Ltd", got)
	})

	t.Run("absent billing address emits no bill fields and no email", func(t *testing.T) {
		fields := BuildRedirectFields(cfg, testOrder(), nil, nil)
		for _, f := range fields {
			assert.False(t, strings.HasPrefix(f.Name, "bill_"), "unexpected field %s", f.Name)
			assert.NotEqual(t, "email", f.Name)
		}
	})

	t.Run("additional fee included in charge total", func(t *testing.T) {
		withFee := cfg
		withFee.AdditionalFee = 2.50
		fields := BuildRedirectFields(withFee, testOrder(), testBilling(), nil)

		got, ok := fields.Get("charge_total")
		require.True(t, ok)
		assert.Equal(t, "52.49", got)
	})

	t.Run("credentials lead the field order", func(t *testing.T) {
		fields := BuildRedirectFields(cfg, testOrder(), testBilling(), nil)
		require.GreaterOrEqual(t, len(fields), 3)
		assert.Equal(t, "ps_store_id", fields[0].Name)
		assert.Equal(t, "hpp_key", fields[1].Name)
		assert.Equal(t, "charge_total", fields[2].Name)
	})
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "49.99", FormatAmount(49.99))
	assert.Equal(t, "50.00", FormatAmount(50))
	assert.Equal(t, "0.10", FormatAmount(0.1))
	assert.Equal(t, "1234.50", FormatAmount(1234.5))
}

func TestPaymentURL(t *testing.T) {
	assert.Equal(t, "https://esqa.moneris.com/HPPDP/index.php", PaymentURL(Config{UseSandbox: true}))
	assert.Equal(t, "https://www3.moneris.com/HPPDP/index.php", PaymentURL(Config{}))
}
