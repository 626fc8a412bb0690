package inventory

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// Fixed lab credentials. These match the deployed lab setup; the environment
// can override each of them, including supplying pre-computed bcrypt digests
// so the plaintext never appears in config files.
const (
	DefaultDBPath        = "lab-inventory.db"
	DefaultAdminEmail    = "admin@issacasimov.in"
	DefaultStudentDomain = "@issacasimov.in"

	defaultAdminPassword   = "ralab"
	defaultStudentPassword = "issacasimov"
)

// Config holds everything the store and authenticator need.
type Config struct {
	DBPath        string
	AdminEmail    string
	StudentDomain string

	// bcrypt digests of the admin and shared student passphrases.
	AdminPasswordHash   string
	StudentPasswordHash string
}

// LoadConfig reads configuration from the environment, falling back to the
// fixed lab defaults. Passphrase digests absent from the environment are
// derived from the default passphrases at load time.
func LoadConfig() (Config, error) {
	cfg := Config{
		DBPath:              getenv("LAB_DB_PATH", DefaultDBPath),
		AdminEmail:          getenv("LAB_ADMIN_EMAIL", DefaultAdminEmail),
		StudentDomain:       getenv("LAB_STUDENT_DOMAIN", DefaultStudentDomain),
		AdminPasswordHash:   os.Getenv("LAB_ADMIN_PASSWORD_HASH"),
		StudentPasswordHash: os.Getenv("LAB_STUDENT_PASSWORD_HASH"),
	}

	var err error
	if cfg.AdminPasswordHash == "" {
		if cfg.AdminPasswordHash, err = hashPassword(defaultAdminPassword); err != nil {
			return Config{}, fmt.Errorf("hash admin passphrase: %w", err)
		}
	}
	if cfg.StudentPasswordHash == "" {
		if cfg.StudentPasswordHash, err = hashPassword(defaultStudentPassword); err != nil {
			return Config{}, fmt.Errorf("hash student passphrase: %w", err)
		}
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
