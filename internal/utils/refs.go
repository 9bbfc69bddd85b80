package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	refLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	refDigits  = "0123456789"
	refAlnum   = refLetters + refDigits
)

// NewID returns a fresh uuid string for CHAR(36) primary keys.
func NewID() string {
	return uuid.NewString()
}

// NewReference builds codes like "TGT-ABC123" used for bookings ("TGT"),
// quotes ("QTE") and payments ("PAY").
func NewReference(prefix string) string {
	return fmt.Sprintf("%s-%s%s", prefix, randomFrom(refLetters, 3), randomFrom(refDigits, 3))
}

// NewReferralCode derives a shareable code from the owner id: first four id
// characters uppercased plus six random alphanumerics.
func NewReferralCode(userID string) string {
	head := strings.ToUpper(strings.ReplaceAll(userID, "-", ""))
	if len(head) > 4 {
		head = head[:4]
	}
	return head + randomFrom(refAlnum, 6)
}

func randomFrom(alphabet string, n int) string {
	var out strings.Builder
	max := big.NewInt(int64(len(alphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is broken;
			// fall back to a fixed char rather than panic in a request path.
			out.WriteByte(alphabet[0])
			continue
		}
		out.WriteByte(alphabet[idx.Int64()])
	}
	return out.String()
}
