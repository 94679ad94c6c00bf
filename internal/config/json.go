package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations for file-based configuration.
type StructuredJSONConfig struct {
	App struct {
		MasterKey     string `json:"master_key"`
		KDFIterations int    `json:"kdf_iterations"`
		TokenSignKey  string `json:"token_sign_key"`
		TokenIssuer   string `json:"token_issuer"`
		Version       string `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DataDir       string `json:"data_dir"`
		ChainFile     string `json:"chain_file"`
		RetentionDays int    `json:"retention_days"`
		ShredPasses   int    `json:"shred_passes"`

		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Timestamp struct {
		URL     string   `json:"url"`
		Timeout Duration `json:"timeout"`
	} `json:"timestamp,omitempty"`

	Notice struct {
		Version       string `json:"version"`
		ContentHash   string `json:"content_hash"`
		EffectiveDate string `json:"effective_date"`
	} `json:"notice,omitempty"`

	OTP struct {
		CodeLength  int      `json:"code_length"`
		MaxAttempts int      `json:"max_attempts"`
		TTL         Duration `json:"ttl"`
	} `json:"otp,omitempty"`

	Grants struct {
		TTL            Duration `json:"ttl"`
		MaxUses        int      `json:"max_uses"`
		ExhaustedGrace Duration `json:"exhausted_grace"`
	} `json:"grants,omitempty"`

	Workers struct {
		RetentionSweepInterval Duration `json:"retention_sweep_interval"`
		GrantSweepInterval     Duration `json:"grant_sweep_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			MasterKey:     jsonCfg.App.MasterKey,
			KDFIterations: jsonCfg.App.KDFIterations,
			TokenSignKey:  jsonCfg.App.TokenSignKey,
			TokenIssuer:   jsonCfg.App.TokenIssuer,
			Version:       jsonCfg.App.Version,
		},
		Storage: Storage{
			DataDir:       jsonCfg.Storage.DataDir,
			ChainFile:     jsonCfg.Storage.ChainFile,
			RetentionDays: jsonCfg.Storage.RetentionDays,
			ShredPasses:   jsonCfg.Storage.ShredPasses,
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Timestamp: Timestamp{
			URL:     jsonCfg.Timestamp.URL,
			Timeout: time.Duration(jsonCfg.Timestamp.Timeout),
		},
		Notice: Notice{
			Version:       jsonCfg.Notice.Version,
			ContentHash:   jsonCfg.Notice.ContentHash,
			EffectiveDate: jsonCfg.Notice.EffectiveDate,
		},
		OTP: OTP{
			CodeLength:  jsonCfg.OTP.CodeLength,
			MaxAttempts: jsonCfg.OTP.MaxAttempts,
			TTL:         time.Duration(jsonCfg.OTP.TTL),
		},
		Grants: Grants{
			TTL:            time.Duration(jsonCfg.Grants.TTL),
			MaxUses:        jsonCfg.Grants.MaxUses,
			ExhaustedGrace: time.Duration(jsonCfg.Grants.ExhaustedGrace),
		},
		Workers: Workers{
			RetentionSweepInterval: time.Duration(jsonCfg.Workers.RetentionSweepInterval),
			GrantSweepInterval:     time.Duration(jsonCfg.Workers.GrantSweepInterval),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
