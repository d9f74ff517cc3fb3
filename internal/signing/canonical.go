package signing

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Header is a single header participating in the signature.
type Header struct {
	Name  string
	Value string
}

// BuildCanonicalRequest builds the canonical request string:
//
//	METHOD\nURI\nQUERY\nCANONICAL_HEADERS\n\nSIGNED_HEADERS\nPAYLOAD_HASH
//
// Header names are lowercased and sorted, values trimmed. The canonical
// headers block and the returned signed-headers list are built from the same
// ordered set; any divergence between the two produces a signature the remote
// rejects without diagnostic detail.
func BuildCanonicalRequest(method, uri, query string, headers []Header, payloadHash string) (canonical, signedHeaders string) {
	sorted := make([]Header, len(headers))
	for i, h := range headers {
		sorted[i] = Header{
			Name:  strings.ToLower(strings.TrimSpace(h.Name)),
			Value: strings.TrimSpace(h.Value),
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	names := make([]string, len(sorted))
	var canonicalHeaders strings.Builder
	for i, h := range sorted {
		names[i] = h.Name
		canonicalHeaders.WriteString(h.Name)
		canonicalHeaders.WriteByte(':')
		canonicalHeaders.WriteString(h.Value)
		canonicalHeaders.WriteByte('\n')
	}
	signedHeaders = strings.Join(names, ";")

	if uri == "" {
		uri = "/"
	}

	canonical = strings.Join([]string{
		method,
		uri,
		query,
		canonicalHeaders.String(),
		signedHeaders,
		payloadHash,
	}, "\n")
	return canonical, signedHeaders
}

// HashPayload returns the lowercase hex SHA-256 digest of the payload body.
func HashPayload(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
