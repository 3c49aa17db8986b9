package config

import (
	"os"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"

	"github.com/matzehuels/figtree/pkg/errors"
)

// Environment variables read by LoadServer.
const (
	EnvAddr     = "FIGTREE_ADDR"
	EnvRedisURL = "FIGTREE_REDIS_URL"
	EnvMongoURI = "FIGTREE_MONGO_URI"
	EnvMongoDB  = "FIGTREE_MONGO_DB"
	EnvStoreDir = "FIGTREE_STORE_DIR"
	EnvSettings = "FIGTREE_SETTINGS"
)

// Server defaults.
const (
	DefaultAddr    = ":8080"
	DefaultMongoDB = "figtree"
)

// Server configures figtree serve. Redis and MongoDB are optional; without
// them the server caches nothing and keeps builds in memory, or in
// StoreDir when set.
type Server struct {
	Addr     string
	RedisURL string
	MongoURI string
	MongoDB  string
	StoreDir string
	Settings string
}

var (
	addrRe  = regexp.MustCompile(`^[^:]*:[0-9]{1,5}$`)
	redisRe = regexp.MustCompile(`^rediss?://`)
	mongoRe = regexp.MustCompile(`^mongodb(\+srv)?://`)
)

// Validate checks the server configuration.
func (s *Server) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Addr, validation.Required, validation.Match(addrRe)),
		validation.Field(&s.RedisURL, validation.Match(redisRe)),
		validation.Field(&s.MongoURI, validation.Match(mongoRe)),
		validation.Field(&s.MongoDB, validation.When(s.MongoURI != "", validation.Required)),
	)
}

// LoadServer reads the server configuration from the environment. Each
// existing env file is loaded first; variables already set in the
// environment take precedence over the files.
func LoadServer(envFiles ...string) (*Server, error) {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSettings, err, "load %s", f)
		}
	}
	s := &Server{
		Addr:     getenv(EnvAddr, DefaultAddr),
		RedisURL: os.Getenv(EnvRedisURL),
		MongoURI: os.Getenv(EnvMongoURI),
		MongoDB:  getenv(EnvMongoDB, DefaultMongoDB),
		StoreDir: os.Getenv(EnvStoreDir),
		Settings: os.Getenv(EnvSettings),
	}
	if err := s.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSettings, err, "invalid server configuration")
	}
	return s, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
