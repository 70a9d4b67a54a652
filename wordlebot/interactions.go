package wordlebot

import (
	"github.com/disgoorg/disgo/httpserver"
	"github.com/oasisprotocol/curve25519-voi/primitives/ed25519"
)

func init() {
	httpserver.Verify = VerifySignature
}

// VerifySignature checks an interaction signature over timestamp+body.
func VerifySignature(publicKey httpserver.PublicKey, message, sig []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), message, sig)
}
