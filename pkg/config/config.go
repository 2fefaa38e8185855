/*
Copyright the Asset Gateway contributors.

SPDX-License-Identifier: Apache-2.0
*/

// Package config loads the gateway's settings from a YAML file and
// GATEWAY_* environment overrides. The loaded value is passed explicitly
// into constructors; there is no global configuration state.
package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is the validated gateway configuration.
type Config struct {
	ListenAddress     string        `mapstructure:"listenAddress"`
	WalletPath        string        `mapstructure:"walletPath"`
	ConnectionProfile string        `mapstructure:"connectionProfile"`
	Organization      string        `mapstructure:"organization"`
	MSPID             string        `mapstructure:"mspId"`
	Channel           string        `mapstructure:"channel"`
	Chaincode         string        `mapstructure:"chaincode"`
	Affiliation       string        `mapstructure:"affiliation"`
	AdminLabel        string        `mapstructure:"adminLabel"`
	MongoURI          string        `mapstructure:"mongoUri"`
	MongoDatabase     string        `mapstructure:"mongoDatabase"`
	TokenSecret       string        `mapstructure:"tokenSecret"`
	TokenTTL          time.Duration `mapstructure:"tokenTtl"`
	CallTimeout       time.Duration `mapstructure:"callTimeout"`
}

// Load reads configuration from path (optional; empty means defaults and
// environment only).
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("listenAddress", ":8080")
	v.SetDefault("walletPath", "wallet")
	v.SetDefault("connectionProfile", "connection.json")
	v.SetDefault("organization", "org1")
	v.SetDefault("mspId", "Org1MSP")
	v.SetDefault("channel", "mychannel")
	v.SetDefault("chaincode", "simpleasset")
	v.SetDefault("affiliation", "org1.department1")
	v.SetDefault("adminLabel", "admin")
	v.SetDefault("mongoUri", "mongodb://localhost:27017")
	v.SetDefault("mongoDatabase", "gateway")
	// Registered with an empty default so AutomaticEnv exposes the key to
	// Unmarshal; validation rejects the empty value.
	v.SetDefault("tokenSecret", "")
	v.SetDefault("tokenTtl", 30*time.Minute)
	v.SetDefault("callTimeout", 30*time.Second)

	v.SetEnvPrefix("gateway")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %q", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.TokenSecret == "" {
		return errors.New("tokenSecret is required (set GATEWAY_TOKENSECRET)")
	}
	if c.CallTimeout <= 0 {
		return errors.New("callTimeout must be positive")
	}
	if c.TokenTTL <= 0 {
		return errors.New("tokenTtl must be positive")
	}
	return nil
}
