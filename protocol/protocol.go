// Package protocol defines the messages and endpoints of the GNS3
// controller HTTP API used by the packet capture client. It covers both API
// generations: v2 (basic auth, /pcap endpoint) and v3 (bearer tokens,
// /capture/stream endpoint).
package protocol

import (
	"fmt"
	"net/url"
)

// APIVersion selects the controller API generation.
type APIVersion string

const (
	V2 APIVersion = "v2"
	V3 APIVersion = "v3"
)

const (
	// PcapMediaType is the content type of capture stream chunks.
	PcapMediaType = "application/vnd.tcpdump.pcap"

	// AuthenticatePath exchanges credentials for a bearer token (v3 only).
	AuthenticatePath = "/v3/access/users/authenticate"
)

// ProbePath returns the endpoint used to detect whether the controller
// speaks v.
func ProbePath(v APIVersion) string {
	if v == V3 {
		return "/v3/access/users/me"
	}
	return "/v2/version"
}

// StreamPath returns the capture stream endpoint of a link.
func StreamPath(v APIVersion, projectID, linkID string) string {
	base := fmt.Sprintf("/%s/projects/%s/links/%s", v, url.PathEscape(projectID), url.PathEscape(linkID))
	if v == V3 {
		return base + "/capture/stream"
	}
	return base + "/pcap"
}

// VersionResponse is returned by GET /v2/version.
type VersionResponse struct {
	Version string `json:"version"`
	Local   bool   `json:"local"`
}

// User is returned by GET /v3/access/users/me.
type User struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// AuthenticateRequest is the body of POST /v3/access/users/authenticate.
type AuthenticateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is the answer to a successful authentication.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ErrorResponse is the JSON body carried by controller error replies.
type ErrorResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
}
