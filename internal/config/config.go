package config

import (
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	flag "github.com/spf13/pflag"
)

// Config holds the connection parameters and export options for a dump run.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string

	OutputDir string
	Namespace *int64
	Limit     int64
	Verbose   bool

	SentryDSN   string
	Environment string
}

const (
	defaultHost      = "localhost"
	defaultPort      = 3306
	defaultOutputDir = "pages"
)

// Load parses command-line arguments, applying WIKIDUMP_* environment
// fallbacks for connection values so credentials can be kept out of
// shell history.
func Load(args []string) (*Config, error) {
	flags := flag.NewFlagSet("wikidump", flag.ContinueOnError)

	host := flags.String("host", defaultHost, "database host")
	port := flags.Int("port", defaultPort, "database port")
	user := flags.String("user", "", "database user")
	password := flags.String("password", "", "database password (or WIKIDUMP_PASSWORD)")
	database := flags.String("database", "", "database name")
	outputDir := flags.String("output-dir", defaultOutputDir, "output directory for .text files")
	namespace := flags.Int64("namespace", 0, "restrict export to one namespace (e.g. 0 for articles)")
	limit := flags.Int64("limit", 0, "maximum number of pages to export (0 for all)")
	verbose := flags.BoolP("verbose", "v", false, "enable debug logging")

	if err := flags.Parse(args); err != nil {
		return nil, eris.Wrap(err, "parsing flags")
	}

	if extra := flags.Args(); len(extra) > 0 {
		return nil, eris.Errorf("unexpected argument: %s", extra[0])
	}

	cfg := &Config{
		Host:        *host,
		Port:        *port,
		User:        *user,
		Password:    *password,
		Database:    *database,
		OutputDir:   *outputDir,
		Limit:       *limit,
		Verbose:     *verbose,
		SentryDSN:   os.Getenv("SENTRY_DSN"),
		Environment: os.Getenv("ENV"),
	}

	envOverride(flags, "host", "WIKIDUMP_HOST", &cfg.Host)
	envOverride(flags, "user", "WIKIDUMP_USER", &cfg.User)
	envOverride(flags, "password", "WIKIDUMP_PASSWORD", &cfg.Password)
	envOverride(flags, "database", "WIKIDUMP_DATABASE", &cfg.Database)

	if !flags.Changed("port") {
		if raw := os.Getenv("WIKIDUMP_PORT"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				return nil, eris.Wrapf(err, "invalid WIKIDUMP_PORT value: %s", raw)
			}
			cfg.Port = parsed
		}
	}

	if flags.Changed("namespace") {
		ns := *namespace
		cfg.Namespace = &ns
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LogLevel maps the verbose flag onto a logrus level name.
func (c *Config) LogLevel() string {
	if c.Verbose {
		return "debug"
	}
	return "info"
}

func (c *Config) validate() error {
	if c.User == "" {
		return eris.New("database user is required (--user or WIKIDUMP_USER)")
	}
	if c.Database == "" {
		return eris.New("database name is required (--database or WIKIDUMP_DATABASE)")
	}
	if c.Port < 1 || c.Port > 65535 {
		return eris.Errorf("port %d is out of range", c.Port)
	}
	if c.Limit < 0 {
		return eris.Errorf("limit must not be negative, got %d", c.Limit)
	}
	if c.OutputDir == "" {
		return eris.New("output directory is required")
	}
	return nil
}

// envOverride applies the environment fallback for a flag the caller did
// not set explicitly.
func envOverride(flags *flag.FlagSet, name, key string, dst *string) {
	if flags.Changed(name) {
		return
	}
	if env := os.Getenv(key); env != "" {
		*dst = env
	}
}
