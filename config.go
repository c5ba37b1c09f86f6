package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Config is the validated JSON configuration consumed once to construct a
// router session. Devices maps user-facing device names to the MAC addresses
// the router reports.
type Config struct {
	Host      string            `json:"host" validate:"required"`
	Port      int               `json:"port" validate:"required"`
	Username  string            `json:"username" validate:"required"`
	Password  string            `json:"password"`
	Devices   map[string]string `json:"devices" validate:"required,min=1,dive,required,mac"`
	VerifyTLS bool              `json:"-"`
}

// validate is shared across loads; field names in messages use the JSON keys
// the user actually wrote, not Go struct names.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// loadConfig reads and validates the configuration file. All missing
// required keys are reported together so the user fixes the file in one
// pass. Validation happens before any network activity.
func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid JSON in config file: %w", err)
	}
	cfg.VerifyTLS = true

	if err := validate.Struct(&cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, describeValidationErrors(verrs)
		}
		return nil, err
	}
	return &cfg, nil
}

// describeValidationErrors turns validator output into one user-facing
// error: required-field gaps are collected into a single list, bad MAC
// values are named by their device key.
func describeValidationErrors(verrs validator.ValidationErrors) error {
	var missing, badMACs []string
	for _, fe := range verrs {
		// Namespace is "Config.devices[name]" for map-value failures and
		// "Config.host" for top-level fields.
		ns := fe.Namespace()
		if open := strings.Index(ns, "["); open >= 0 {
			badMACs = append(badMACs, strings.TrimSuffix(ns[open+1:], "]"))
			continue
		}
		// "required" on a map only rejects nil; "min" is what catches an
		// empty devices object. Both read as a missing field to the user.
		if fe.Tag() == "required" || fe.Tag() == "min" {
			missing = append(missing, fe.Field())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	if len(badMACs) > 0 {
		sort.Strings(badMACs)
		return fmt.Errorf("invalid MAC address for device(s): %s", strings.Join(badMACs, ", "))
	}
	return fmt.Errorf("invalid configuration: %s", verrs.Error())
}

// deviceMAC resolves a configured device name to its MAC address. An
// unknown name fails with the full list of known names; nothing has touched
// the network at this point.
func (c *Config) deviceMAC(name string) (string, error) {
	mac, ok := c.Devices[name]
	if !ok {
		names := make([]string, 0, len(c.Devices))
		for n := range c.Devices {
			names = append(names, n)
		}
		sort.Strings(names)
		return "", fmt.Errorf("unknown device: %s\nAvailable devices: %s",
			name, strings.Join(names, ", "))
	}
	return mac, nil
}

// routerURL derives the base URL both endpoints hang off of. The management
// interface is HTTPS only.
func (c *Config) routerURL() string {
	return fmt.Sprintf("https://%s:%d", c.Host, c.Port)
}

// getEnv retrieves environment variable value with fallback to default if not set
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Global logger; silent until initialized so CLI output stays clean.
var logger = zap.NewNop()

// initLoggerWrapper handles logger initialization and returns error
func initLoggerWrapper(verbose bool) error {
	l, err := initLogger(verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = l
	return nil
}

// initLogger is a package-level variable so tests can substitute it
var initLogger = func(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
