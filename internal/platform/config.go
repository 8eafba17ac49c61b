package platform

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Config is the environment-level configuration shared by the CLI and the
// server. Flags override it.
type Config struct {
	Adapter   string // TALKTYPER_ADAPTER
	Path      string // TALKTYPER_PATH
	Key       string // TALKTYPER_KEY
	Format    string // TALKTYPER_FORMAT
	RedisAddr string // TALKTYPER_REDIS_ADDR
	SpeakCmd  string // TALKTYPER_SPEAK_CMD
	Addr      string // TALKTYPER_ADDR

	OpenAIKey string // OPENAI_API_KEY

	TwilioAccountSID string // TWILIO_ACCOUNT_SID
	TwilioAuthToken  string // TWILIO_AUTH_TOKEN
	TwilioFrom       string // TWILIO_FROM_NUMBER
}

// LoadEnv loads dotenv files into the process environment. Missing files
// are skipped and variables already set win. Defaults to ".env".
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// FromEnv reads the configuration from the process environment.
func FromEnv() Config {
	return Config{
		Adapter:          os.Getenv("TALKTYPER_ADAPTER"),
		Path:             os.Getenv("TALKTYPER_PATH"),
		Key:              os.Getenv("TALKTYPER_KEY"),
		Format:           os.Getenv("TALKTYPER_FORMAT"),
		RedisAddr:        os.Getenv("TALKTYPER_REDIS_ADDR"),
		SpeakCmd:         os.Getenv("TALKTYPER_SPEAK_CMD"),
		Addr:             os.Getenv("TALKTYPER_ADDR"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFrom:       os.Getenv("TWILIO_FROM_NUMBER"),
	}
}

// Options translates the storage settings into store options. Empty fields
// keep the defaults.
func (c Config) Options() []Option {
	return []Option{
		WithAdapter(c.Adapter),
		WithPath(c.Path),
		WithKey(c.Key),
		WithCodec(c.Format),
		WithRedisAddr(c.RedisAddr),
	}
}

// TwilioConfigured reports whether SMS delivery credentials are present.
func (c Config) TwilioConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioFrom != ""
}
