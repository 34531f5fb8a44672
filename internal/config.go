package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/teslaing/cotizador/internal/export"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	SQLite   SQLiteConfig      `yaml:"sqlite"`
	Uploads  UploadsConfig     `yaml:"uploads"`
	Branding BrandingConfig    `yaml:"branding"`
	AI       AIConfig          `yaml:"ai"`
	Auth     AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Uploads.Validate(); err != nil {
		return err
	}
	if err := c.AI.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
	SSE      SSEConfig  `yaml:"sse"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SSEConfig controls server-sent events behaviour.
type SSEConfig struct {
	// ListThrottleSeconds limits how often the aggregated
	// listado.actualizado event is emitted. Zero means 2 seconds.
	ListThrottleSeconds int `yaml:"list_throttle_seconds"`
}

// ListThrottle returns the listing-refresh throttle as a duration.
func (c *SSEConfig) ListThrottle() time.Duration {
	if c.ListThrottleSeconds <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.ListThrottleSeconds) * time.Second
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// UploadsConfig holds the directory where per-session documents are kept.
type UploadsConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the uploads configuration.
func (c *UploadsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// BrandingConfig holds runtime branding assets and the company identity
// printed on every exported document. Path may be empty, in which case
// the hot-reload watcher is disabled and Company is used as-is.
type BrandingConfig struct {
	Path    string        `yaml:"path"`
	Company CompanyConfig `yaml:"company"`
}

// CompanyConfig is the fallback company identity when branding/empresa.yaml
// is absent.
type CompanyConfig struct {
	Name    string `yaml:"nombre"`
	RUC     string `yaml:"ruc"`
	Address string `yaml:"direccion"`
	Phone   string `yaml:"telefono"`
	Email   string `yaml:"email"`
}

// Info converts the config block into the exporter's company type.
func (c *CompanyConfig) Info() export.CompanyInfo {
	return export.CompanyInfo{
		Name:    c.Name,
		RUC:     c.RUC,
		Address: c.Address,
		Phone:   c.Phone,
		Email:   c.Email,
	}
}

// AIConfig holds the chat provider configuration.
//
// Model uses the "provider:model" form, e.g. "claude:claude-sonnet-4-5"
// or "openai:gpt-4o". An empty Model disables generation; the rest of
// the application keeps working and chat reports the assistant as
// unavailable.
type AIConfig struct {
	Model          string `yaml:"model"`
	APIKey         string `yaml:"api_key"`
	MaxTokens      int    `yaml:"max_tokens"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Validate validates the AI configuration.
func (c *AIConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MaxTokens, validation.Min(0)),
		validation.Field(&c.TimeoutSeconds, validation.Min(0)),
	)
}

// Timeout returns the per-request provider timeout.
func (c *AIConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 120 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		SQLite: SQLiteConfig{
			Path: "./cotizador.db",
		},
		Uploads: UploadsConfig{
			Path: "./uploads",
		},
		Branding: BrandingConfig{
			Path: "./branding",
			Company: CompanyConfig{
				Name: "TESLA INGENIERIA Y CONSTRUCCION E.I.R.L.",
			},
		},
		AI: AIConfig{
			Model: "claude:claude-sonnet-4-5",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
