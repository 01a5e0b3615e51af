package config

import (
	"strings"
	"time"
)

// VendorsConfig groups similarity vendor configuration. A vendor with an
// empty API key is left unregistered; jobs naming it fail with a clear
// error instead of calling out with bad credentials.
type VendorsConfig struct {
	Ocean    OceanVendorConfig    `envPrefix:"VENDOR_OCEAN_"`
	LinkedIn LinkedInVendorConfig `envPrefix:"VENDOR_LINKEDIN_"`
}

// Sanitize applies guardrails to vendor configuration values.
func (v *VendorsConfig) Sanitize() {
	v.Ocean.sanitize()
	v.LinkedIn.sanitize()
}

// OceanVendorConfig configures the Ocean similarity vendor.
type OceanVendorConfig struct {
	BaseURL    string        `env:"BASE_URL"    envDefault:"https://api.ocean.io"`
	APIKey     string        `env:"API_KEY"     envDefault:""`
	Timeout    time.Duration `env:"TIMEOUT"     envDefault:"30s"`
	RetryLimit int           `env:"RETRY_LIMIT" envDefault:"2"`
}

// Enabled returns true when the vendor is configured with credentials.
func (c *OceanVendorConfig) Enabled() bool {
	return c.APIKey != ""
}

func (c *OceanVendorConfig) sanitize() {
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	c.APIKey = strings.TrimSpace(c.APIKey)
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.RetryLimit < 0 {
		c.RetryLimit = 0
	}
}

// LinkedInVendorConfig configures the LinkedIn similarity vendor.
type LinkedInVendorConfig struct {
	BaseURL string `env:"BASE_URL" envDefault:"https://api.linkedin.com"`
	APIKey  string `env:"API_KEY"  envDefault:""`
	// Expression overrides the JMESPath projection used to map the
	// provider's response onto profiles. Empty uses the built-in default.
	Expression string        `env:"EXPRESSION" envDefault:""`
	Timeout    time.Duration `env:"TIMEOUT"    envDefault:"30s"`
}

// Enabled returns true when the vendor is configured with credentials.
func (c *LinkedInVendorConfig) Enabled() bool {
	return c.APIKey != ""
}

func (c *LinkedInVendorConfig) sanitize() {
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.Expression = strings.TrimSpace(c.Expression)
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
}
