package config

import (
	"errors"
	"regexp"
)

// Validation errors for configuration fields.
var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.New("version must be >= 1")

	// ErrUnknownVendor indicates an unrecognized vendor name.
	ErrUnknownVendor = errors.New("unknown vendor")

	// ErrInvalidProfileName indicates a malformed profile name.
	ErrInvalidProfileName = errors.New("invalid profile name")

	// ErrMissingField indicates a profile lacks a field its vendor requires.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidEnv indicates an unrecognized NetSuite environment.
	ErrInvalidEnv = errors.New("invalid environment")
)

// profileNamePattern validates profile names.
// Names must be lowercase alphanumeric with hyphens, starting with a letter.
var profileNamePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version < 1 {
		errs = append(errs, ErrVersionTooLow)
	}

	for vendor, profiles := range cfg.Profiles {
		if !ValidVendor(vendor) {
			errs = append(errs, &ProfileError{Vendor: vendor, Err: ErrUnknownVendor})
			continue
		}
		for name, p := range profiles {
			if !profileNamePattern.MatchString(name) {
				errs = append(errs, &ProfileError{Vendor: vendor, Profile: name, Err: ErrInvalidProfileName})
			}
			for _, field := range MissingFields(vendor, p) {
				errs = append(errs, &ProfileError{Vendor: vendor, Profile: name, Field: field, Err: ErrMissingField})
			}
			if vendor == VendorNetSuite && p.Env != "" && !ValidEnv(p.Env) {
				errs = append(errs, &ProfileError{Vendor: vendor, Profile: name, Field: "env", Err: ErrInvalidEnv})
			}
		}
	}

	for vendor, name := range cfg.Defaults {
		if !ValidVendor(vendor) {
			errs = append(errs, &ProfileError{Vendor: vendor, Err: ErrUnknownVendor})
			continue
		}
		if _, ok := cfg.Profiles[vendor][name]; !ok {
			errs = append(errs, &ProfileError{Vendor: vendor, Profile: name,
				Err: errors.New("default profile not defined")})
		}
	}

	return errs
}

// MissingFields returns which of a vendor's required fields are empty in p.
// Unknown vendors have no required fields.
func MissingFields(vendor string, p Profile) []string {
	values := map[string]string{
		"endpoint":         p.Endpoint,
		"client_id":        p.ClientID,
		"client_secret":    p.ClientSecret,
		"refresh_token":    p.RefreshToken,
		"api_key":          p.APIKey,
		"access_token":     p.AccessToken,
		"account_id":       p.AccountID,
		"cert_id":          p.CertID,
		"private_key_path": p.PrivateKeyPath,
		"app_id":           p.AppID,
		"app_key":          p.AppKey,
		"access_key":       p.AccessKey,
		"secret_key":       p.SecretKey,
	}

	var missing []string
	for _, field := range vendorRequiredFields[vendor] {
		if values[field] == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// ProfileError represents a validation error for a vendor profile.
type ProfileError struct {
	Vendor  string
	Profile string
	Field   string
	Err     error
}

func (e *ProfileError) Error() string {
	msg := e.Vendor
	if e.Profile != "" {
		msg += "." + e.Profile
	}
	if e.Field != "" {
		msg += "." + e.Field
	}
	return msg + ": " + e.Err.Error()
}

func (e *ProfileError) Unwrap() error {
	return e.Err
}
