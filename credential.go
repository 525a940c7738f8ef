package corvid

import "golang.org/x/oauth2"

// CredentialType distinguishes a bot token from a user OAuth2 token.
// Discord's Authorization header format differs between the two: "Bot
// <token>" versus "Bearer <token>".
type CredentialType int

const (
	CredentialBot CredentialType = iota
	CredentialBearer
)

// Credential is whatever corvid authenticates REST and gateway calls
// with.
type Credential struct {
	Type CredentialType

	// Token is the raw bot token for CredentialBot, or unused for
	// CredentialBearer in favor of OAuth2Token.
	Token string

	// OAuth2Token backs CredentialBearer; its AccessToken is sent as the
	// bearer token and its Expiry/RefreshToken let a caller-provided
	// oauth2.TokenSource keep it current.
	OAuth2Token *oauth2.Token
}

// NewBotCredential builds a Credential for a bot token, the usual case
// for a gateway session.
func NewBotCredential(token string) Credential {
	return Credential{Type: CredentialBot, Token: token}
}

// NewBearerCredential builds a Credential for an OAuth2 user token. Bearer
// credentials cannot open a gateway connection; they're valid for REST
// calls made on a user's behalf only.
func NewBearerCredential(token *oauth2.Token) Credential {
	return Credential{Type: CredentialBearer, OAuth2Token: token}
}

// AuthorizationHeader renders the value corvid sets on the Authorization
// header for this credential.
func (c Credential) AuthorizationHeader() string {
	switch c.Type {
	case CredentialBearer:
		if c.OAuth2Token == nil {
			return ""
		}

		return "Bearer " + c.OAuth2Token.AccessToken
	default:
		return "Bot " + c.Token
	}
}

// GatewayCapable reports whether this credential can be used to Identify
// on the gateway. Only bot tokens can.
func (c Credential) GatewayCapable() bool {
	return c.Type == CredentialBot
}
