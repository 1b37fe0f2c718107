package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		HTTPAddr string `koanf:"http_addr"`
		LogLevel string `koanf:"log_level"`
		BaseURL  string `koanf:"base_url"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout  time.Duration `koanf:"read_timeout"`
		WriteTimeout time.Duration `koanf:"write_timeout"`
		IdleTimeout  time.Duration `koanf:"idle_timeout"`
	} `koanf:"http"`

	Product struct {
		Name string `koanf:"name"`
	} `koanf:"product"`

	Inventory struct {
		URL     string        `koanf:"url"`
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"inventory"`

	Gateway struct {
		BaseURL        string        `koanf:"base_url"`
		APIKey         string        `koanf:"api_key"`
		Currency       string        `koanf:"currency"`
		SourceCurrency string        `koanf:"source_currency"`
		Timeout        time.Duration `koanf:"timeout"`
		VerifyWebhook  bool          `koanf:"verify_webhook"`
	} `koanf:"gateway"`

	SMTP struct {
		Host     string `koanf:"host"`
		Port     int    `koanf:"port"`
		Username string `koanf:"username"`
		Password string `koanf:"password"`
		From     string `koanf:"from"`
	} `koanf:"smtp"`

	MySQL struct {
		DSN             string        `koanf:"dsn"`
		MaxOpenConns    int           `koanf:"max_open_conns"`
		MaxIdleConns    int           `koanf:"max_idle_conns"`
		ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	} `koanf:"mysql"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
	} `koanf:"redis"`

	Claim struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"claim"`

	Rabbit struct {
		URL        string `koanf:"url"`
		Exchange   string `koanf:"exchange"`
		RoutingKey string `koanf:"routing_key"`
	} `koanf:"rabbitmq"`
}

func Load(pathDir, envName string) (Config, error) {
	k := koanf.New(".")
	// 1) base
	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	// 2) env override (dev/staging/prod). Optional: allow missing for local runs.
	_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())

	// 3) environment variables override (prefix CONFSHOP_, nested with __)
	// e.g. CONFSHOP_GATEWAY__API_KEY, CONFSHOP_SMTP__PASSWORD
	if err := k.Load(env.Provider("CONFSHOP_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "CONFSHOP_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr required")
	}
	if c.Product.Name == "" {
		return fmt.Errorf("product.name required")
	}
	if c.Inventory.URL == "" {
		return fmt.Errorf("inventory.url required")
	}
	if c.Gateway.BaseURL == "" || c.Gateway.APIKey == "" {
		return fmt.Errorf("gateway.base_url and gateway.api_key required")
	}
	if c.MySQL.DSN == "" {
		return fmt.Errorf("mysql.dsn required")
	}
	return nil
}

// CallbackURL is where the gateway posts payment status callbacks.
func (c Config) CallbackURL() string {
	return c.App.BaseURL + "/v1/payment-callback"
}

// SuccessURL and FailURL are the buyer-facing redirect targets after
// the hosted payment page.
func (c Config) SuccessURL() string { return c.App.BaseURL + "/payment/success" }
func (c Config) FailURL() string    { return c.App.BaseURL + "/payment/failed" }
