package models

// TokenTypeBearer is the only credential type the backend issues today.
const TokenTypeBearer = "Bearer"

// CredentialPair is the access/refresh credential couple. The pair is created
// at login or successful renewal, overwritten on every renewal, and erased as
// a unit on logout or irrecoverable renewal failure. Expiry is never inspected
// locally; it is discovered reactively through the gateway's 401 path.
type CredentialPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Valid reports whether the pair carries both credentials.
func (p CredentialPair) Valid() bool {
	return p.AccessToken != "" && p.RefreshToken != ""
}
