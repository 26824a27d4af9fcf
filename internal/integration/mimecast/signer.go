// Package mimecast is a thin client for the Mimecast API 1.0, which
// signs every request with HMAC-SHA1 application keys instead of a
// refreshable token.
package mimecast

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// dateLayout is Mimecast's x-mc-date format: RFC 1123 with a literal
// UTC zone name.
const dateLayout = "Mon, 02 Jan 2006 15:04:05 MST"

// Signer produces the per-request Mimecast authorization headers.
type Signer struct {
	AppID     string
	AppKey    string
	AccessKey string
	SecretKey string // base64-encoded

	// now and newRequestID are injectable for tests.
	now          func() time.Time
	newRequestID func() string
}

// NewSigner builds a signer from application credentials.
func NewSigner(appID, appKey, accessKey, secretKey string) *Signer {
	return &Signer{
		AppID:        appID,
		AppKey:       appKey,
		AccessKey:    accessKey,
		SecretKey:    secretKey,
		now:          time.Now,
		newRequestID: uuid.NewString,
	}
}

// Sign computes the authorization header for one request URI at one
// moment. The same date and request id must travel in the x-mc-date
// and x-mc-req-id headers.
func (s *Signer) Sign(date, requestID, uri string) (string, error) {
	key, err := base64.StdEncoding.DecodeString(s.SecretKey)
	if err != nil {
		return "", errors.Wrap(err, "decoding secret key")
	}

	mac := hmac.New(sha1.New, key)
	mac.Write([]byte(strings.Join([]string{date, requestID, uri, s.AppKey}, ":")))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return "MC " + s.AccessKey + ":" + sig, nil
}

// Apply signs req in place, setting the four Mimecast auth headers.
// It implements the shape of an httpx.AuthFunc.
func (s *Signer) Apply(_ context.Context, req *http.Request) error {
	date := s.now().UTC().Format(dateLayout)
	requestID := s.newRequestID()

	auth, err := s.Sign(date, requestID, req.URL.Path)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", auth)
	req.Header.Set("x-mc-date", date)
	req.Header.Set("x-mc-req-id", requestID)
	req.Header.Set("x-mc-app-id", s.AppID)
	return nil
}
