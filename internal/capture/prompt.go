package capture

import "errors"

// ErrPromptCancelled is returned by prompts the user dismissed.
var ErrPromptCancelled = errors.New("cancelled by user")

// Credentials are controller login credentials.
type Credentials struct {
	Username string
	Password string
}

// CredentialsPrompter asks the user to log in to the controller at server.
// username pre-fills the last known user name.
type CredentialsPrompter interface {
	PromptCredentials(server, username string) (Credentials, error)
}

// TrustRequest describes a certificate that failed verification.
type TrustRequest struct {
	HostPort    string
	Problems    []string
	Fingerprint string
	// Details is the human readable certificate dump.
	Details string
}

// CertificatePrompter asks the user whether to connect despite certificate
// problems.
type CertificatePrompter interface {
	ConfirmCertificate(req TrustRequest) (bool, error)
}
