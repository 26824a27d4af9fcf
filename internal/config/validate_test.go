package config

import (
	"errors"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Version: 1,
		Profiles: map[string]map[string]Profile{
			VendorShopify: {
				"default": {Endpoint: "https://x.myshopify.com", AccessToken: "shpat_x"},
			},
			VendorMimecast: {
				"prod": {AppID: "a", AppKey: "b", AccessKey: "c", SecretKey: "d"},
			},
		},
	}
}

func TestValidate_OK(t *testing.T) {
	if errs := Validate(validConfig()); len(errs) != 0 {
		t.Errorf("Validate() = %v, want no errors", errs)
	}
}

func TestValidate_Nil(t *testing.T) {
	if errs := Validate(nil); len(errs) != 1 {
		t.Errorf("Validate(nil) = %v, want one error", errs)
	}
}

func TestValidate_VersionTooLow(t *testing.T) {
	cfg := validConfig()
	cfg.Version = 0
	errs := Validate(cfg)
	if !containsErr(errs, ErrVersionTooLow) {
		t.Errorf("Validate() = %v, want ErrVersionTooLow", errs)
	}
}

func TestValidate_UnknownVendor(t *testing.T) {
	cfg := validConfig()
	cfg.Profiles["magento"] = map[string]Profile{"default": {}}
	errs := Validate(cfg)
	if !containsErr(errs, ErrUnknownVendor) {
		t.Errorf("Validate() = %v, want ErrUnknownVendor", errs)
	}
}

func TestValidate_MissingFields(t *testing.T) {
	cfg := validConfig()
	cfg.Profiles[VendorSPAPI] = map[string]Profile{
		"na": {ClientID: "only-id"},
	}
	errs := Validate(cfg)
	if !containsErr(errs, ErrMissingField) {
		t.Fatalf("Validate() = %v, want ErrMissingField", errs)
	}

	var pe *ProfileError
	for _, err := range errs {
		if errors.As(err, &pe) && errors.Is(err, ErrMissingField) {
			break
		}
	}
	if pe == nil || pe.Vendor != VendorSPAPI {
		t.Errorf("ProfileError = %+v, want vendor %q", pe, VendorSPAPI)
	}
}

func TestValidate_BadProfileName(t *testing.T) {
	cfg := validConfig()
	cfg.Profiles[VendorCeligo] = map[string]Profile{
		"Bad_Name": {APIKey: "k"},
	}
	errs := Validate(cfg)
	if !containsErr(errs, ErrInvalidProfileName) {
		t.Errorf("Validate() = %v, want ErrInvalidProfileName", errs)
	}
}

func TestValidate_BadEnv(t *testing.T) {
	cfg := validConfig()
	cfg.Profiles[VendorNetSuite] = map[string]Profile{
		"prod": {AccountID: "1", ClientID: "c", CertID: "x", PrivateKeyPath: "/k.pem", Env: "sandbox9"},
	}
	errs := Validate(cfg)
	if !containsErr(errs, ErrInvalidEnv) {
		t.Errorf("Validate() = %v, want ErrInvalidEnv", errs)
	}
}

func TestValidate_DefaultNotDefined(t *testing.T) {
	cfg := validConfig()
	cfg.Defaults = map[string]string{VendorShopify: "absent"}
	if errs := Validate(cfg); len(errs) == 0 {
		t.Error("expected error for undefined default profile")
	}
}

func TestMissingFields(t *testing.T) {
	p := Profile{ClientID: "c", ClientSecret: "s"}
	missing := MissingFields(VendorGoogle, p)
	if len(missing) != 1 || missing[0] != "refresh_token" {
		t.Errorf("MissingFields() = %v, want [refresh_token]", missing)
	}
}

func containsErr(errs []error, target error) bool {
	for _, err := range errs {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
