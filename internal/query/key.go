package query

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
)

// Namespaces group cache entries that are invalidated together.
const (
	NSProperties      = "properties"
	NSAdminProperties = "admin-properties"
	NSProperty        = "property"
	NSInquiries       = "inquiries"
	NSAdminInquiries  = "admin-inquiries"
)

// Key identifies one cached request. Scope separates per-session data and is
// empty for public data.
type Key struct {
	Namespace string
	Scope     string
	Params    map[string]string
}

// String renders the key as namespace:scope:md5(query-encoded params).
// Encoding sorts by name and escapes separators, so parameter order never
// matters and distinct parameter sets never collide.
func (k Key) String() string {
	vals := make(url.Values, len(k.Params))
	for p, v := range k.Params {
		vals.Set(p, v)
	}
	hash := md5.Sum([]byte(vals.Encode()))
	return k.Namespace + ":" + k.Scope + ":" + hex.EncodeToString(hash[:])
}

// ScopeForToken derives a cache scope from a bearer token without storing
// the token itself.
func ScopeForToken(token string) string {
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}
