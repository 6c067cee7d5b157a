package csrf

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TokenBytes is the number of random bytes in a token; the hex form is twice as long.
const TokenBytes = 32

// GenerateToken returns a fresh random token in lowercase hex.
func GenerateToken() (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenGeneration, err)
	}
	return hex.EncodeToString(buf), nil
}

// ValidateToken reports whether token equals expected. Empty values and
// length mismatches fail immediately; otherwise every byte is compared so
// the running time does not depend on where the first difference is.
func ValidateToken(token, expected string) bool {
	if token == "" || expected == "" {
		return false
	}
	if len(token) != len(expected) {
		return false
	}

	var diff byte
	for i := 0; i < len(token); i++ {
		diff |= token[i] ^ expected[i]
	}
	return diff == 0
}

// NewIdentifier returns an opaque client identifier of the form
// user_<unix-ms>_<random>, for callers that cannot be identified by address.
func NewIdentifier() string {
	return newIdentifier(time.Now())
}

func newIdentifier(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return "user_" + strconv.FormatInt(now.UnixMilli(), 10) + "_" + random
}
