package moneris

import (
	"strconv"

	"monerispay/internal/models"
)

// OrderReferenceField carries the order id through the gateway round trip and
// comes back on the success callback.
const OrderReferenceField = "rvar_order_id"

// Field is a single name/value pair of the redirect form body.
type Field struct {
	Name  string
	Value string
}

// Fields is the ordered field set posted to the hosted payment page.
type Fields []Field

func (f *Fields) add(name, value string) {
	*f = append(*f, Field{Name: name, Value: value})
}

// Get returns the value of the first field with the given name.
func (f Fields) Get(name string) (string, bool) {
	for _, field := range f {
		if field.Name == name {
			return field.Value, true
		}
	}
	return "", false
}

// BuildRedirectFields assembles the form body for the redirect handoff.
// Billing and shipping blocks are emitted only when the address exists; an
// absent address produces no fields rather than empty values. The numeric
// order_id field is sent only outside sandbox mode.
func BuildRedirectFields(cfg Config, order *models.Order, billing, shipping *models.Address) Fields {
	fields := make(Fields, 0, 28)

	fields.add("ps_store_id", cfg.StoreID)
	fields.add("hpp_key", cfg.HPPKey)
	fields.add("charge_total", FormatAmount(ChargeTotal(cfg, order.OrderTotal)))

	fields.add("cust_id", strconv.FormatUint(uint64(order.CustomerID), 10))
	if !cfg.UseSandbox {
		fields.add("order_id", strconv.FormatUint(uint64(order.ID), 10))
	}

	if billing != nil {
		fields.add("email", billing.Email)
	}
	fields.add(OrderReferenceField, strconv.FormatUint(uint64(order.ID), 10))

	if shipping != nil {
		fields.add("ship_first_name", shipping.FirstName)
		fields.add("ship_last_name", shipping.LastName)
		fields.add("ship_company_name", shipping.Company)
		fields.add("ship_city", shipping.City)
		fields.add("ship_phone", shipping.Phone)
		fields.add("ship_fax", shipping.Fax)
		fields.add("ship_postal_code", shipping.ZipPostalCode)
		fields.add("ship_address_one", addressLine(shipping))
		fields.add("ship_state_or_province", shipping.StateProvince)
		fields.add("ship_country", shipping.Country)
	}

	if billing != nil {
		fields.add("bill_first_name", billing.FirstName)
		fields.add("bill_last_name", billing.LastName)
		fields.add("bill_company_name", billing.Company)
		fields.add("bill_phone", billing.Phone)
		fields.add("bill_fax", billing.Fax)
		fields.add("bill_postal_code", billing.ZipPostalCode)
		fields.add("bill_city", billing.City)
		fields.add("bill_address_one", addressLine(billing))
		fields.add("bill_state_or_province", billing.StateProvince)
		fields.add("bill_country", billing.Country)
	}

	return fields
}

// addressLine folds both address lines into the gateway's single-line format.
func addressLine(a *models.Address) string {
	return "1: " + a.Address1 + " 2: " + a.Address2
}

// FormatAmount renders an amount the way the gateway expects: two decimals,
// dot separator, no locale handling.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
