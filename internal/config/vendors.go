package config

// Vendor identifiers for supported integrations.
const (
	VendorSPAPI    = "spapi"
	VendorNetSuite = "netsuite"
	VendorShopify  = "shopify"
	VendorCeligo   = "celigo"
	VendorN8N      = "n8n"
	VendorMimecast = "mimecast"
	VendorGoogle   = "google"
	VendorPlytix   = "plytix"
)

// NetSuite environment identifiers, selected with --env.
const (
	EnvProd     = "prod"
	EnvSandbox1 = "sb1"
	EnvSandbox2 = "sb2"
)

// vendorRequiredFields maps each vendor to the profile fields it cannot
// operate without. Used by Validate and by doctor's profile check.
var vendorRequiredFields = map[string][]string{
	VendorSPAPI:    {"client_id", "client_secret", "refresh_token"},
	VendorNetSuite: {"account_id", "client_id", "cert_id", "private_key_path"},
	VendorShopify:  {"endpoint", "access_token"},
	VendorCeligo:   {"api_key"},
	VendorN8N:      {"endpoint", "api_key"},
	VendorMimecast: {"app_id", "app_key", "access_key", "secret_key"},
	VendorGoogle:   {"client_id", "client_secret", "refresh_token"},
	VendorPlytix:   {"api_key", "secret_key"},
}

// ValidVendor returns true if the vendor name is recognized.
func ValidVendor(vendor string) bool {
	_, ok := vendorRequiredFields[vendor]
	return ok
}

// Vendors returns a slice of all supported vendor identifiers.
func Vendors() []string {
	return []string{
		VendorSPAPI,
		VendorNetSuite,
		VendorShopify,
		VendorCeligo,
		VendorN8N,
		VendorMimecast,
		VendorGoogle,
		VendorPlytix,
	}
}

// ValidEnv returns true if the NetSuite environment name is recognized.
func ValidEnv(env string) bool {
	switch env {
	case EnvProd, EnvSandbox1, EnvSandbox2:
		return true
	}
	return false
}

// RequiredFields returns the profile fields a vendor cannot operate without.
func RequiredFields(vendor string) []string {
	return vendorRequiredFields[vendor]
}
