package match

import (
	"crypto/rand"

	"github.com/dawgdevv/4-rows-game/internal/domain"
)

// codeAlphabet omits the easily-confused I, O, 0 and 1.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	codeLength      = 6
	maxCodeAttempts = 100
)

// randomCode generates one candidate room code.
func randomCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", domain.ErrInternalFault
	}
	for i := range buf {
		buf[i] = codeAlphabet[int(buf[i])%len(codeAlphabet)]
	}
	return string(buf), nil
}
