package http

import (
	"crypto/ed25519"
	"encoding/hex"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Interaction callback signature headers.
const (
	headerSignature = "X-Signature-Ed25519"
	headerTimestamp = "X-Signature-Timestamp"
)

// VerifyInteractionSignature checks the platform's ed25519 signature over
// timestamp+body. With no public key configured verification is skipped,
// which is only acceptable for local development.
func VerifyInteractionSignature(publicKeyHex string, logger *zap.Logger) fiber.Handler {
	var key ed25519.PublicKey
	if publicKeyHex != "" {
		decoded, err := hex.DecodeString(publicKeyHex)
		if err != nil || len(decoded) != ed25519.PublicKeySize {
			logger.Error("invalid BOT_PUBLIC_KEY, rejecting all interactions")
		} else {
			key = ed25519.PublicKey(decoded)
		}
	} else {
		logger.Warn("BOT_PUBLIC_KEY not set, interaction signatures are not verified")
	}

	return func(c *fiber.Ctx) error {
		if publicKeyHex == "" {
			return c.Next()
		}
		if key == nil {
			return c.Status(fiber.StatusUnauthorized).SendString("invalid request signature")
		}

		sig, err := hex.DecodeString(c.Get(headerSignature))
		if err != nil || len(sig) != ed25519.SignatureSize {
			return c.Status(fiber.StatusUnauthorized).SendString("invalid request signature")
		}
		timestamp := c.Get(headerTimestamp)
		if timestamp == "" {
			return c.Status(fiber.StatusUnauthorized).SendString("invalid request signature")
		}

		signed := append([]byte(timestamp), c.Body()...)
		if !ed25519.Verify(key, signed, sig) {
			return c.Status(fiber.StatusUnauthorized).SendString("invalid request signature")
		}
		return c.Next()
	}
}
