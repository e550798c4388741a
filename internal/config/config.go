package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port                  string
	LogLevel              string
	ProjectID             string
	FirestoreEnabled      bool
	FirebaseEnabled       bool
	KMSKeyName            string
	JWTSigningKey         string
	JWTSecretName         string
	TokenTTL              time.Duration
	BVNHashKey            string
	RedisURL              string
	NATSURL               string
	NameEnquiryURL        string
	NameEnquiryAPIKey     string
	RegistrationProviders []string
	DirectoryCacheTTL     time.Duration
	AccountCacheTTL       time.Duration
}

func New() *Config {
	return &Config{
		Port:                  getOr("PORT", "8080"),
		LogLevel:              os.Getenv("LOGLEVEL"),
		ProjectID:             os.Getenv("PROJECTID"),
		FirestoreEnabled:      getBool("FIRESTORE_ENABLED"),
		FirebaseEnabled:       getBool("FIREBASE_ENABLED"),
		KMSKeyName:            os.Getenv("KMS_KEY_NAME"),
		JWTSigningKey:         os.Getenv("JWT_SIGNING_KEY"),
		JWTSecretName:         os.Getenv("JWT_SECRET_NAME"),
		TokenTTL:              getDuration("TOKEN_TTL", 24*time.Hour),
		BVNHashKey:            os.Getenv("BVN_HASH_KEY"),
		RedisURL:              os.Getenv("REDIS_URL"),
		NATSURL:               os.Getenv("NATS_URL"),
		NameEnquiryURL:        os.Getenv("NAME_ENQUIRY_URL"),
		NameEnquiryAPIKey:     os.Getenv("NAME_ENQUIRY_API_KEY"),
		RegistrationProviders: getList("REGISTRATION_PROVIDERS", []string{"parallex"}),
		DirectoryCacheTTL:     getDuration("DIRECTORY_CACHE_TTL", 10*time.Minute),
		AccountCacheTTL:       getDuration("ACCOUNT_CACHE_TTL", time.Hour),
	}
}

func getOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func getList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
