// Command signcheck prints the canonical request, string to sign, and
// Authorization header for a sample GetItems call, using the exact signing
// code the server runs. Point it at a known-good vector when debugging a
// signature rejection.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pricepulse/backend/config"
	"github.com/pricepulse/backend/internal/signing"
)

func main() {
	var (
		target    = flag.String("target", "com.amazon.paapi5.v1.ProductAdvertisingAPIv1.GetItems", "x-amz-target header value")
		path      = flag.String("path", "/paapi5/getitems", "request URI path")
		payload   = flag.String("payload", `{"ItemIds":["B000000000"]}`, "request body")
		timestamp = flag.String("timestamp", "", "fixed timestamp (20060102T150405Z); defaults to now")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	now := time.Now()
	if *timestamp != "" {
		now, err = time.Parse(signing.TimeFormat, *timestamp)
		if err != nil {
			log.Fatalf("Invalid timestamp %q: %v", *timestamp, err)
		}
	}
	st := signing.NewSigningTime(now)

	creds := signing.Credentials{
		AccessKey: cfg.Amazon.AccessKey,
		SecretKey: cfg.Amazon.SecretKey,
		Region:    cfg.Amazon.Region,
		Service:   "ProductAdvertisingAPI",
	}

	headers := []signing.Header{
		{Name: "content-encoding", Value: "amz-1.0"},
		{Name: "content-type", Value: "application/json; charset=utf-8"},
		{Name: "host", Value: cfg.Amazon.Host},
		{Name: "x-amz-date", Value: st.TimeFormat()},
		{Name: "x-amz-target", Value: *target},
	}

	canonical, signedHeaders := signing.BuildCanonicalRequest(
		http.MethodPost, *path, "", headers, signing.HashPayload([]byte(*payload)))

	scope := signing.CredentialScope(st, creds.Region, creds.Service)
	authorization, err := signing.Sign(creds, st, signedHeaders, canonical)
	if err != nil {
		log.Fatalf("Signing failed: %v", err)
	}

	fmt.Println("--- canonical request ---")
	fmt.Println(canonical)
	fmt.Println("--- string to sign ---")
	fmt.Println(signing.StringToSign(st, scope, canonical))
	fmt.Println("--- authorization ---")
	fmt.Println(authorization)
}
