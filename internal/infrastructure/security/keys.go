package security

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/bugloop/issue-tracker/internal/config"
)

// SigningKeys holds the RSA keypair used to sign and verify all tokens.
// It is constructed once at startup and passed explicitly to the JWT
// service; the material is never persisted in token records and never
// exposed through a package-level variable.
type SigningKeys struct {
	Private *rsa.PrivateKey
	Public  *rsa.PublicKey
}

const generatedKeyBits = 2048

// LoadSigningKeys resolves the keypair in order: inline PEM from config,
// PEM files at the configured paths, then a freshly generated keypair.
// Generated keys are persisted to the configured file paths so restarts
// keep verifying older tokens; persist failures are logged and ignored.
// An error here must abort startup: the service cannot sign tokens
// without a key.
func LoadSigningKeys(cfg config.JWTConfig, log *zap.Logger) (*SigningKeys, error) {
	if cfg.RSAPrivateKeyPEM != "" && cfg.RSAPublicKeyPEM != "" {
		return parseKeyPair([]byte(cfg.RSAPrivateKeyPEM), []byte(cfg.RSAPublicKeyPEM))
	}

	if cfg.RSAPrivateKeyFile != "" && cfg.RSAPublicKeyFile != "" {
		privPEM, privErr := os.ReadFile(cfg.RSAPrivateKeyFile)
		pubPEM, pubErr := os.ReadFile(cfg.RSAPublicKeyFile)
		if privErr == nil && pubErr == nil {
			return parseKeyPair(privPEM, pubPEM)
		}
		if !os.IsNotExist(privErr) && privErr != nil {
			return nil, fmt.Errorf("failed to read RSA private key file %q: %w", cfg.RSAPrivateKeyFile, privErr)
		}
		if pubErr != nil && !os.IsNotExist(pubErr) {
			return nil, fmt.Errorf("failed to read RSA public key file %q: %w", cfg.RSAPublicKeyFile, pubErr)
		}
	}

	key, err := rsa.GenerateKey(rand.Reader, generatedKeyBits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA keypair: %w", err)
	}
	log.Warn("no RSA keypair configured, generated a fresh one",
		zap.String("private_key_file", cfg.RSAPrivateKeyFile),
		zap.String("public_key_file", cfg.RSAPublicKeyFile),
	)

	if cfg.RSAPrivateKeyFile != "" && cfg.RSAPublicKeyFile != "" {
		if err := persistKeyPair(key, cfg.RSAPrivateKeyFile, cfg.RSAPublicKeyFile); err != nil {
			log.Warn("failed to persist generated keypair", zap.Error(err))
		}
	}

	return &SigningKeys{Private: key, Public: &key.PublicKey}, nil
}

func parseKeyPair(privPEM, pubPEM []byte) (*SigningKeys, error) {
	priv, err := jwt.ParseRSAPrivateKeyFromPEM(privPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSA private key: %w", err)
	}
	pub, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSA public key: %w", err)
	}
	return &SigningKeys{Private: priv, Public: pub}, nil
}

func persistKeyPair(key *rsa.PrivateKey, privPath, pubPath string) error {
	if err := os.MkdirAll(filepath.Dir(privPath), 0o700); err != nil {
		return err
	}

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	if err := os.WriteFile(privPath, privPEM, 0o600); err != nil {
		return err
	}

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return err
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	return os.WriteFile(pubPath, pubPEM, 0o644)
}

// EncodePrivateKeyPEM renders the private key in PKCS#1 PEM form. Used by
// tests and by operators exporting a generated key.
func EncodePrivateKeyPEM(key *rsa.PrivateKey) []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
}

// EncodePublicKeyPEM renders the public key in PKIX PEM form.
func EncodePublicKeyPEM(key *rsa.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}
