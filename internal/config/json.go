package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	Storage struct {
		DB struct {
			Driver string `json:"driver"`
			DSN    string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Identity struct {
		Table         string `json:"table"`
		DeletedColumn string `json:"deleted_column"`
	} `json:"identity,omitempty"`

	Purge struct {
		BatchLimit uint64   `json:"batch_limit"`
		MaxBatches int      `json:"max_batches"`
		Interval   Duration `json:"interval"`
	} `json:"purge,omitempty"`

	Registry struct {
		FilePath             string   `json:"file"`
		InstalledPlugins     []string `json:"installed_plugins"`
		PluginsTable         string   `json:"plugins_table"`
		TablePrefix          string   `json:"table_prefix"`
		SkipSchemaValidation bool     `json:"skip_schema_validation"`
	} `json:"registry,omitempty"`
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
		Storage: Storage{
			DB: DB{
				Driver: jsonCfg.Storage.DB.Driver,
				DSN:    jsonCfg.Storage.DB.DSN,
			},
		},
		Identity: Identity{
			Table:         jsonCfg.Identity.Table,
			DeletedColumn: jsonCfg.Identity.DeletedColumn,
		},
		Purge: Purge{
			BatchLimit: jsonCfg.Purge.BatchLimit,
			MaxBatches: jsonCfg.Purge.MaxBatches,
			Interval:   time.Duration(jsonCfg.Purge.Interval),
		},
		Registry: Registry{
			FilePath:             jsonCfg.Registry.FilePath,
			InstalledPlugins:     jsonCfg.Registry.InstalledPlugins,
			PluginsTable:         jsonCfg.Registry.PluginsTable,
			TablePrefix:          jsonCfg.Registry.TablePrefix,
			SkipSchemaValidation: jsonCfg.Registry.SkipSchemaValidation,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
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
