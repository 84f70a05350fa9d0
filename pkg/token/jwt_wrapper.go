package token

// Function variables so tests can substitute token issuance and parsing
// without touching the signing secrets.
var (
	GenerateAccessTokenFunc  = GenerateAccessToken
	GenerateRefreshTokenFunc = GenerateRefreshToken
	ParseAccessTokenFunc     = ParseAccessToken
	ParseRefreshTokenFunc    = ParseRefreshToken
)

// GenerateAccessTokenWrapper indirect call used by the member use case
func GenerateAccessTokenWrapper(userID, issuer string) (string, error) {
	return GenerateAccessTokenFunc(userID, issuer)
}

// GenerateRefreshTokenWrapper indirect call used by the member use case
func GenerateRefreshTokenWrapper(userID, issuer string) (string, error) {
	return GenerateRefreshTokenFunc(userID, issuer)
}

// ParseAccessTokenWrapper indirect call used by the member use case
func ParseAccessTokenWrapper(t string) (*Claims, error) {
	return ParseAccessTokenFunc(t)
}

// ParseRefreshTokenWrapper indirect call used by the member use case
func ParseRefreshTokenWrapper(t string) (*Claims, error) {
	return ParseRefreshTokenFunc(t)
}
