package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port      string `env:"PORT"       envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
	// AllowedOrigins limits browser origins. Empty allows any origin.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	// DatabaseURL enables the prompt library table and the event log.
	DatabaseURL string `env:"DATABASE_URL"`
	// DeckDir overrides the bundled decks with <name>.json files.
	DeckDir string `env:"DECK_DIR"`

	DefaultRounds  int `env:"DEFAULT_ROUNDS"  envDefault:"5"`
	ImprintStrokes int `env:"IMPRINT_STROKES" envDefault:"3"`
	RoomCodeLength int `env:"ROOM_CODE_LENGTH" envDefault:"4"`
	RoomMailbox    int `env:"ROOM_MAILBOX_SIZE" envDefault:"64"`

	ClientSendBuffer        int     `env:"CLIENT_SEND_BUFFER"         envDefault:"64"`
	ClientMessagesPerSecond float64 `env:"CLIENT_MESSAGES_PER_SECOND" envDefault:"10"`
	ClientMessageBurst      int     `env:"CLIENT_MESSAGE_BURST"       envDefault:"20"`

	DBMaxOpenConns           int `env:"DB_MAX_OPEN_CONNS"            envDefault:"10"`
	DBMaxIdleConns           int `env:"DB_MAX_IDLE_CONNS"            envDefault:"10"`
	DBConnMaxLifetimeSeconds int `env:"DB_CONN_MAX_LIFETIME_SECONDS" envDefault:"300"`
	DBConnMaxIdleTimeSeconds int `env:"DB_CONN_MAX_IDLE_SECONDS"     envDefault:"60"`
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	cfg, err := parse(map[string]string{})
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadDotEnv copies a .env file into the process environment. A missing file
// is not an error and variables that are already set win.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}
	return godotenv.Load(path)
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return parse(nil)
}

func parse(environment map[string]string) (Config, error) {
	var cfg Config
	opts := env.Options{}
	if environment != nil {
		opts.Environment = environment
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.DefaultRounds < 1 || c.DefaultRounds > 25 {
		errs = append(errs, fmt.Errorf("DEFAULT_ROUNDS must be between 1 and 25, got %d", c.DefaultRounds))
	}
	if c.ImprintStrokes < 1 {
		errs = append(errs, fmt.Errorf("IMPRINT_STROKES must be positive, got %d", c.ImprintStrokes))
	}
	if c.RoomCodeLength < 3 {
		errs = append(errs, fmt.Errorf("ROOM_CODE_LENGTH must be at least 3, got %d", c.RoomCodeLength))
	}
	if c.RoomMailbox < 1 {
		errs = append(errs, fmt.Errorf("ROOM_MAILBOX_SIZE must be positive, got %d", c.RoomMailbox))
	}
	if c.ClientSendBuffer < 1 {
		errs = append(errs, fmt.Errorf("CLIENT_SEND_BUFFER must be positive, got %d", c.ClientSendBuffer))
	}
	if c.ClientMessagesPerSecond <= 0 || c.ClientMessageBurst < 1 {
		errs = append(errs, errors.New("client rate limit must be positive"))
	}
	return errors.Join(errs...)
}

func (c Config) Addr() string {
	return ":" + c.Port
}

func (c Config) DBConnMaxLifetime() time.Duration {
	return time.Duration(c.DBConnMaxLifetimeSeconds) * time.Second
}

func (c Config) DBConnMaxIdleTime() time.Duration {
	return time.Duration(c.DBConnMaxIdleTimeSeconds) * time.Second
}
