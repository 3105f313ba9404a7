package authclient

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"
)

const (
	protocolNamespace = "identity.mozilla.com/picl/v1/"
	stretchRounds     = 1000
	keyLen            = 32
)

// DeriveAuthPW stretches password with the account email and derives the
// hex authPW the authentication service verifies. The plain password never
// leaves the process.
func DeriveAuthPW(email, password string) (string, error) {
	salt := []byte(protocolNamespace + "quickStretch:" + email)
	stretched := pbkdf2.Key([]byte(password), salt, stretchRounds, keyLen, sha256.New)

	authPW := make([]byte, keyLen)
	r := hkdf.New(sha256.New, stretched, nil, []byte(protocolNamespace+"authPW"))
	if _, err := io.ReadFull(r, authPW); err != nil {
		return "", fmt.Errorf("derive authPW: %w", err)
	}
	return hex.EncodeToString(authPW), nil
}
