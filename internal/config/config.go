package config

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Options holds the service settings. Values come from the environment
// (optionally seeded from a .env file) and are overridden by flags.
type Options struct {
	RunAddress    string        `env:"RUN_ADDRESS" envDefault:":8080"`
	Level         string        `env:"LOG_LEVEL" envDefault:"info"`
	DatabaseURI   string        `env:"DATABASE_URI"`
	RedisAddress  string        `env:"REDIS_ADDR"`
	SQLitePath    string        `env:"SQLITE_PATH" envDefault:"storefront.db"`
	ContentAPIURL string        `env:"CONTENT_API_URL" envDefault:"https://jsonplaceholder.typicode.com"`
	AuthSecret    string        `env:"AUTH_SECRET" envDefault:"dev-secret"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
}

func NewOptions() *Options {
	return new(Options)
}

// ParseFlags handles command line arguments
// and stores their values in the corresponding variables.
func (o *Options) ParseFlags() {
	loadEnvFile()

	if err := o.Parse(flag.CommandLine, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

// Parse reads the environment into o and then applies args through fs.
func (o *Options) Parse(fs *flag.FlagSet, args []string) error {
	if err := env.Parse(o); err != nil {
		return err
	}

	fs.StringVar(&o.RunAddress, "a", o.RunAddress, "address and port to run server")
	fs.StringVar(&o.Level, "l", o.Level, "log level")
	fs.StringVar(&o.DatabaseURI, "d", o.DatabaseURI, "postgres connection string for the slot store")
	fs.StringVar(&o.RedisAddress, "r", o.RedisAddress, "redis address for the slot store")
	fs.StringVar(&o.SQLitePath, "s", o.SQLitePath, "sqlite file for the local slot store")
	fs.StringVar(&o.ContentAPIURL, "c", o.ContentAPIURL, "content api base url")
	fs.StringVar(&o.AuthSecret, "k", o.AuthSecret, "session token signing key")
	fs.DurationVar(&o.SessionTTL, "t", o.SessionTTL, "session token lifetime")

	return fs.Parse(args)
}

func (o *Options) RunAddr() string {
	return o.RunAddress
}

func (o *Options) LogLevel() string {
	return o.Level
}

func (o *Options) DataBaseDSN() string {
	return o.DatabaseURI
}

// loadEnvFile loads environment variables from a .env file in the working
// directory or, when started from cmd/storefront, the repository root.
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	for _, envPath := range []string{filepath.Join(cwd, ".env"), filepath.Join(cwd, "..", "..", ".env")} {
		if err := godotenv.Load(envPath); err == nil {
			log.Printf(".env file loaded from %s", envPath)
			return
		}
	}
	log.Printf("No .env file found, proceeding without it")
}
