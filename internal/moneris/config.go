package moneris

// Config is an immutable snapshot of the gateway settings. It is loaded from
// the settings store once per request and passed by value; protocol components
// never cache or mutate it.
type Config struct {
	StoreID                 string
	HPPKey                  string
	UseSandbox              bool
	AdditionalFee           float64
	AdditionalFeePercentage bool
}

// Hosted payment page and verification endpoints. The hostnames are an
// external contract with Moneris and must not be changed.
const (
	sandboxPaymentURL    = "https://esqa.moneris.com/HPPDP/index.php"
	productionPaymentURL = "https://www3.moneris.com/HPPDP/index.php"

	sandboxVerifyURL    = "https://esqa.moneris.com/HPPDP/verifyTxn.php"
	productionVerifyURL = "https://www3.moneris.com/HPPDP/verifyTxn.php"
)

// PaymentURL returns the hosted payment page the browser is redirected to.
func PaymentURL(cfg Config) string {
	if cfg.UseSandbox {
		return sandboxPaymentURL
	}
	return productionPaymentURL
}

func verifyURL(cfg Config) string {
	if cfg.UseSandbox {
		return sandboxVerifyURL
	}
	return productionVerifyURL
}
