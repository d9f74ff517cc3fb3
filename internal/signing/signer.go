// Package signing implements the AWS Signature Version 4 scheme used by the
// Product Advertising API: canonical-request construction, the chained
// signing-key derivation, and Authorization header assembly. Every caller,
// the production client and diagnostics alike, goes through this package so
// there is exactly one implementation of the algorithm.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

const (
	// Algorithm is the SigV4 signing algorithm identifier.
	Algorithm = "AWS4-HMAC-SHA256"

	// EmptyPayloadHash is the hex encoded SHA-256 hash of an empty body.
	EmptyPayloadHash = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

	requestSuffix = "aws4_request"
)

// Credentials holds the long-lived signing material and scope. Immutable for
// the process lifetime once validated.
type Credentials struct {
	AccessKey string
	SecretKey string
	Region    string
	Service   string
}

// Validate reports which required credential field is missing, if any.
func (c Credentials) Validate() error {
	switch {
	case c.AccessKey == "":
		return errors.New("signing: access key is required")
	case c.SecretKey == "":
		return errors.New("signing: secret key is required")
	case c.Region == "":
		return errors.New("signing: region is required")
	case c.Service == "":
		return errors.New("signing: service name is required")
	}
	return nil
}

// DeriveKey derives the per-request signing key by chaining four keyed hashes:
//
//	kDate    = HMAC-SHA256("AWS4"+secret, date)
//	kRegion  = HMAC-SHA256(kDate, region)
//	kService = HMAC-SHA256(kRegion, service)
//	kSigning = HMAC-SHA256(kService, "aws4_request")
func DeriveKey(secret, region, service string, t SigningTime) []byte {
	kDate := hmacSHA256([]byte("AWS4"+secret), []byte(t.ShortTimeFormat()))
	kRegion := hmacSHA256(kDate, []byte(region))
	kService := hmacSHA256(kRegion, []byte(service))
	return hmacSHA256(kService, []byte(requestSuffix))
}

// CredentialScope builds the date/region/service/aws4_request scope string
// binding a signature to a specific day, region, and service.
func CredentialScope(t SigningTime, region, service string) string {
	return strings.Join([]string{t.ShortTimeFormat(), region, service, requestSuffix}, "/")
}

// StringToSign builds ALGORITHM\nTIMESTAMP\nSCOPE\nHEX(SHA256(canonicalRequest)).
func StringToSign(t SigningTime, credentialScope, canonicalRequest string) string {
	hash := sha256.Sum256([]byte(canonicalRequest))
	return strings.Join([]string{
		Algorithm,
		t.TimeFormat(),
		credentialScope,
		hex.EncodeToString(hash[:]),
	}, "\n")
}

// Sign computes the request signature and assembles the Authorization header
// value. Pure given (credentials, timestamp, canonical request); missing
// credentials fail before any hashing occurs.
func Sign(creds Credentials, t SigningTime, signedHeaders, canonicalRequest string) (string, error) {
	if err := creds.Validate(); err != nil {
		return "", err
	}

	scope := CredentialScope(t, creds.Region, creds.Service)
	stringToSign := StringToSign(t, scope, canonicalRequest)
	key := DeriveKey(creds.SecretKey, creds.Region, creds.Service, t)
	signature := hex.EncodeToString(hmacSHA256(key, []byte(stringToSign)))

	var b strings.Builder
	b.WriteString(Algorithm)
	b.WriteString(" Credential=")
	b.WriteString(creds.AccessKey)
	b.WriteByte('/')
	b.WriteString(scope)
	b.WriteString(", SignedHeaders=")
	b.WriteString(signedHeaders)
	b.WriteString(", Signature=")
	b.WriteString(signature)
	return b.String(), nil
}

// hmacSHA256 computes HMAC-SHA256 of data with the given key.
func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}
