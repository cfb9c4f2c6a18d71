package ingest

import (
	"net/url"
	"strings"
)

// Scheme is the fetch policy decided for one URL.
type Scheme int

const (
	// SchemeInsecureTLS keeps HTTPS but skips certificate verification.
	// Attachment hosts routinely present certs that fail Go's verifier.
	SchemeInsecureTLS Scheme = iota

	// SchemeForceHTTP downgrades the URL to plain HTTP. Used for hosts whose
	// TLS endpoints are known broken (e.g. Tencent multimedia CDN).
	SchemeForceHTTP
)

// defaultForceHTTPHosts are hosts downgraded to plain HTTP out of the box.
var defaultForceHTTPHosts = []string{
	"multimedia.nt.qq.com.cn",
}

// Policy decides how attachment URLs are fetched, per host.
// It is consulted before every fetch so downgrades are explicit and testable
// without touching the network.
type Policy struct {
	forceHTTP map[string]bool
}

// NewPolicy builds a policy from the built-in host list plus extra hosts
// from configuration.
func NewPolicy(extraHosts []string) *Policy {
	p := &Policy{forceHTTP: make(map[string]bool)}
	for _, h := range defaultForceHTTPHosts {
		p.forceHTTP[strings.ToLower(h)] = true
	}
	for _, h := range extraHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			p.forceHTTP[h] = true
		}
	}
	return p
}

// For returns the fetch scheme for a URL. Unparseable URLs get the default.
func (p *Policy) For(rawURL string) Scheme {
	u, err := url.Parse(rawURL)
	if err != nil {
		return SchemeInsecureTLS
	}
	if p.forceHTTP[strings.ToLower(u.Hostname())] {
		return SchemeForceHTTP
	}
	return SchemeInsecureTLS
}

// Rewrite applies the policy to a URL. For SchemeForceHTTP it replaces the
// leading https:// with http:// and reports the downgrade; otherwise the URL
// is returned unchanged.
func (p *Policy) Rewrite(rawURL string) (string, bool) {
	if p.For(rawURL) != SchemeForceHTTP {
		return rawURL, false
	}
	if !strings.HasPrefix(rawURL, "https://") {
		return rawURL, false
	}
	return "http://" + strings.TrimPrefix(rawURL, "https://"), true
}
