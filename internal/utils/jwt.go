package utils // package utils provides helper functions for token creation and hashing

import (
    "errors" // sentinel error values for verification failures
    "time"   // time utilities for issue timestamps and age checks

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// Sentinel errors returned by VerifyAccessToken. Callers translate
// these into HTTP 401 responses with distinct messages.
var (
    // ErrInvalidSignature covers malformed tokens, wrong signing
    // algorithms and signature mismatches: anything that cannot be
    // attributed to a token we issued.
    ErrInvalidSignature = errors.New("invalid token signature")
    // ErrTokenExpired is returned when a genuine token is older than
    // the configured lifetime.
    ErrTokenExpired = errors.New("token expired")
)

// AccessToken represents a signed JWT access token along with its issue
// time. The Token field contains the serialized JWT string. Access
// tokens are short-lived and carried in the Authorization header when
// calling protected endpoints.
type AccessToken struct {
    Token    string    // the serialized JWT string
    IssuedAt time.Time // the UTC issue time embedded in the token
}

// TokenClaims is the verified content of an access token: the subject
// user and when the token was issued. The token carries no expiry of
// its own; lifetime is a server-side configuration value enforced at
// verification time against IssuedAt.
type TokenClaims struct {
    UserID   uint64
    IssuedAt time.Time
}

// IssueAccessToken builds and signs an HS256 JWT for a user. The JWT
// carries only the subject (sub) and issued-at (iat) claims; role and
// expiry are deliberately absent because the authentication guard
// reloads the user record on every request and enforces lifetime from
// configuration. Issuing is side-effect free.
func IssueAccessToken(secret string, userID uint64) (AccessToken, error) {
    // Record the issue time once so the struct and the claim agree to
    // the second.
    now := time.Now().UTC().Truncate(time.Second)
    claims := jwt.MapClaims{
        "sub": userID,
        "iat": now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, IssuedAt: now}, nil
}

// VerifyAccessToken parses and validates a serialized access token.
// It checks, in order: that the token parses and its HMAC signature
// matches the secret (ErrInvalidSignature otherwise), and that the
// token's age does not exceed lifetime (ErrTokenExpired otherwise).
// On success the subject id and issue time are returned. Verification
// performs no I/O.
func VerifyAccessToken(secret, raw string, lifetime time.Duration) (TokenClaims, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Type assert the signing method to HMAC; reject others so a
        // token signed with "none" or an RSA key never validates.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidSignature
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return TokenClaims{}, ErrInvalidSignature
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return TokenClaims{}, ErrInvalidSignature
    }

    // Numeric JSON values decode as float64.
    var userID uint64
    switch v := claims["sub"].(type) {
    case float64:
        userID = uint64(v)
    default:
        return TokenClaims{}, ErrInvalidSignature
    }
    iatF, ok := claims["iat"].(float64)
    if !ok {
        return TokenClaims{}, ErrInvalidSignature
    }
    issuedAt := time.Unix(int64(iatF), 0).UTC()

    // Lifetime is enforced here rather than via an exp claim: the
    // validity window can be shortened in configuration and applies
    // immediately to already-issued tokens.
    if time.Now().UTC().Sub(issuedAt) > lifetime {
        return TokenClaims{}, ErrTokenExpired
    }
    return TokenClaims{UserID: userID, IssuedAt: issuedAt}, nil
}
