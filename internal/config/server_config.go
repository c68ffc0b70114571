// Package config holds the typed runtime configuration for the service,
// resolved from environment variables with sane development defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EchoServer configures the HTTP layer.
type EchoServer struct {
	ListenAddress                  string
	HideInternalServerErrorDetails bool
	GracefulShutdownTimeout        time.Duration
}

// Database configures the PostgreSQL connection for key metadata.
type Database struct {
	Host     string
	Port     int
	Username string
	Password string
	Database string
	SSLMode  string
}

// ConnectionString builds a lib/pq DSN.
func (d Database) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.Username, d.Password, d.Database, d.SSLMode)
}

// Logger configures zerolog.
type Logger struct {
	Level              string
	PrettyPrintConsole bool
}

// Auth configures the JWT bearer middleware on the key API.
type Auth struct {
	JWTSecret string
	JWTIssuer string
}

// HD configures the key tree core: which network addresses are rendered for
// and how hard the passphrase KDF works.
type HD struct {
	Network string // mainnet, testnet3, regtest
	ScryptN int
	ScryptR int
	ScryptP int
}

// Server is the root configuration object handed to every component.
type Server struct {
	Echo     EchoServer
	Database Database
	Logger   Logger
	Auth     Auth
	HD       HD
}

// DefaultServiceConfigFromEnv resolves the full configuration from
// HDKEY_-prefixed environment variables, falling back to development
// defaults.
func DefaultServiceConfigFromEnv() Server {
	v := viper.New()
	v.SetEnvPrefix("HDKEY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("echo.listen_address", ":8080")
	v.SetDefault("echo.hide_internal_server_error_details", true)
	v.SetDefault("echo.graceful_shutdown_timeout", "10s")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.username", "hdkey")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "hdkey")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.pretty_print_console", false)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwt_issuer", "hdkey-infra")

	v.SetDefault("hd.network", "mainnet")
	v.SetDefault("hd.scrypt_n", 16384)
	v.SetDefault("hd.scrypt_r", 8)
	v.SetDefault("hd.scrypt_p", 1)

	return Server{
		Echo: EchoServer{
			ListenAddress:                  v.GetString("echo.listen_address"),
			HideInternalServerErrorDetails: v.GetBool("echo.hide_internal_server_error_details"),
			GracefulShutdownTimeout:        v.GetDuration("echo.graceful_shutdown_timeout"),
		},
		Database: Database{
			Host:     v.GetString("database.host"),
			Port:     v.GetInt("database.port"),
			Username: v.GetString("database.username"),
			Password: v.GetString("database.password"),
			Database: v.GetString("database.database"),
			SSLMode:  v.GetString("database.sslmode"),
		},
		Logger: Logger{
			Level:              v.GetString("logger.level"),
			PrettyPrintConsole: v.GetBool("logger.pretty_print_console"),
		},
		Auth: Auth{
			JWTSecret: v.GetString("auth.jwt_secret"),
			JWTIssuer: v.GetString("auth.jwt_issuer"),
		},
		HD: HD{
			Network: v.GetString("hd.network"),
			ScryptN: v.GetInt("hd.scrypt_n"),
			ScryptR: v.GetInt("hd.scrypt_r"),
			ScryptP: v.GetInt("hd.scrypt_p"),
		},
	}
}
