package capture

import (
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// TrustCache records certificates the user accepted, keyed by host:port.
// It lives as long as the Client that owns it.
type TrustCache struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewTrustCache() *TrustCache {
	return &TrustCache{entries: make(map[string]string)}
}

// Trusted reports whether fingerprint was accepted for hostPort.
func (t *TrustCache) Trusted(hostPort, fingerprint string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.entries[hostPort] == fingerprint
}

func (t *TrustCache) Add(hostPort, fingerprint string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[hostPort] = fingerprint
}

// Fingerprint returns the SHA-256 digest of the DER certificate as
// colon separated upper case hex.
func Fingerprint(cert *x509.Certificate) string {
	sum := sha256.Sum256(cert.Raw)
	encoded := strings.ToUpper(hex.EncodeToString(sum[:]))
	parts := make([]string, 0, len(sum))
	for i := 0; i < len(encoded); i += 2 {
		parts = append(parts, encoded[i:i+2])
	}
	return strings.Join(parts, ":")
}

// CertificateText renders cert for display in a trust prompt.
func CertificateText(cert *x509.Certificate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s\n", cert.Subject)
	fmt.Fprintf(&b, "Issuer: %s\n", cert.Issuer)
	fmt.Fprintf(&b, "Serial number: %s\n", cert.SerialNumber)
	fmt.Fprintf(&b, "Valid from: %s\n", cert.NotBefore.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Valid until: %s\n", cert.NotAfter.UTC().Format(time.RFC3339))
	var names []string
	names = append(names, cert.DNSNames...)
	for _, ip := range cert.IPAddresses {
		names = append(names, ip.String())
	}
	if len(names) > 0 {
		fmt.Fprintf(&b, "Alternative names: %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(&b, "SHA-256 fingerprint: %s\n", Fingerprint(cert))
	b.Write(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw}))
	return b.String()
}

// certificateProblems lists every reason chain failed verification for
// host. Validity, host name and issuer are checked independently so the
// user sees all of them at once.
func certificateProblems(chain []*x509.Certificate, host string, roots *x509.CertPool, now time.Time) []string {
	leaf := chain[0]
	var problems []string

	if now.Before(leaf.NotBefore) {
		problems = append(problems, "The certificate is not yet valid")
	}
	if now.After(leaf.NotAfter) {
		problems = append(problems, "The certificate has expired")
	}
	if err := leaf.VerifyHostname(host); err != nil {
		problems = append(problems, "The host name did not match any of the valid hosts for this certificate")
	}

	intermediates := x509.NewCertPool()
	for _, cert := range chain[1:] {
		intermediates.AddCert(cert)
	}
	_, err := leaf.Verify(x509.VerifyOptions{
		Roots:         roots,
		Intermediates: intermediates,
		// Validity was checked above.
		CurrentTime: leaf.NotBefore.Add(leaf.NotAfter.Sub(leaf.NotBefore) / 2),
	})
	var unknown x509.UnknownAuthorityError
	switch {
	case err == nil:
	case errors.As(err, &unknown) && leaf.CheckSignatureFrom(leaf) == nil:
		problems = append(problems, "The certificate is self-signed, and untrusted")
	case errors.As(err, &unknown):
		problems = append(problems, "The issuer certificate could not be found")
	default:
		problems = append(problems, err.Error())
	}
	return problems
}

// CertificateError is returned when the user did not accept a certificate.
type CertificateError struct {
	HostPort string
	Problems []string
}

func (e *CertificateError) Error() string {
	return fmt.Sprintf("SSL certificate of %s rejected: %s", e.HostPort, strings.Join(e.Problems, "; "))
}
