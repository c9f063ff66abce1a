package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/shashin/internal/catalog"
	"github.com/starford/shashin/internal/manifest"
	"github.com/starford/shashin/internal/render"
	"github.com/starford/shashin/internal/textdecode"
	"github.com/starford/shashin/internal/watch"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Site    SiteConfig        `yaml:"site"`
	Gallery GalleryConfig     `yaml:"gallery"`
	Web     WebConfig         `yaml:"web"`
	Auth    AuthConfig        `yaml:"auth"`
	CORS    CORSConfig        `yaml:"cors"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Site.Validate(); err != nil {
		return err
	}
	if err := c.Gallery.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
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

// SiteConfig locates the gallery's files. Manifest and ImageRoot are
// relative to Root and are also the URL paths the page requests.
type SiteConfig struct {
	Title        string `yaml:"title"`
	Root         string `yaml:"root"`
	Manifest     string `yaml:"manifest"`
	ImageRoot    string `yaml:"image_root"`
	ThumbnailDir string `yaml:"thumbnail_dir"`
	ThumbnailExt string `yaml:"thumbnail_ext"`
	// PreferUTF8 tries strict UTF-8 before the Shift_JIS lead-byte check.
	PreferUTF8 bool `yaml:"prefer_utf8"`
}

// Validate validates the site configuration.
func (c *SiteConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.Manifest, validation.Required),
	); err != nil {
		return err
	}
	opts := c.ManifestOptions()
	return opts.Validate()
}

// ManifestOptions returns the parser options for this site.
func (c *SiteConfig) ManifestOptions() manifest.Options {
	return manifest.Options{
		ImageRoot:    c.ImageRoot,
		ThumbnailDir: c.ThumbnailDir,
		ThumbnailExt: c.ThumbnailExt,
	}.WithDefaults()
}

// DecodePolicy returns the manifest decoding policy.
func (c *SiteConfig) DecodePolicy() textdecode.Policy {
	p := textdecode.DefaultPolicy()
	if c.PreferUTF8 {
		p = textdecode.PreferValidUTF8(p)
	}
	return p
}

// GalleryConfig holds browsing and reload behaviour.
type GalleryConfig struct {
	BatchSize      int           `yaml:"batch_size"`
	TagSeparator   string        `yaml:"tag_separator"`
	SampleFallback bool          `yaml:"sample_fallback"`
	Watch          bool          `yaml:"watch"`
	WatchDebounce  time.Duration `yaml:"watch_debounce"`
	ReloadThrottle time.Duration `yaml:"reload_throttle"`
}

// Validate validates the gallery configuration.
func (c *GalleryConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BatchSize, validation.Required, validation.Min(1), validation.Max(500)),
		validation.Field(&c.TagSeparator, validation.Required),
		validation.Field(&c.WatchDebounce, validation.Min(time.Duration(0))),
		validation.Field(&c.ReloadThrottle, validation.Min(time.Duration(0))),
	)
}

// WebConfig locates the compiled browser client (app.wasm, wasm_exec.js).
type WebConfig struct {
	Dir string `yaml:"dir"`
}

// CORSConfig lists origins allowed to call the API from other sites.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
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
	mo := manifest.DefaultOptions()
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Site: SiteConfig{
			Title:        "Photo Gallery",
			Root:         ".",
			Manifest:     catalog.DefaultManifestPath,
			ImageRoot:    mo.ImageRoot,
			ThumbnailDir: mo.ThumbnailDir,
			ThumbnailExt: mo.ThumbnailExt,
		},
		Gallery: GalleryConfig{
			BatchSize:      render.DefaultBatchSize,
			TagSeparator:   catalog.DefaultTagSeparator,
			SampleFallback: true,
			Watch:          true,
			WatchDebounce:  watch.DefaultDebounce,
			ReloadThrottle: time.Second,
		},
		Web: WebConfig{
			Dir: "./web",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
