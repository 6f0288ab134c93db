package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophfeedback/internal/flagx"
)

// JsonConfig is the on-disk shape of the configuration file. Absent fields
// leave the current value untouched, hence the pointers for booleans.
type JsonConfig struct {
	EndpointAddrGRPC string `json:"endpoint_addr_grpc"`
	LogLevel         string `json:"log_level"`

	StoreBackend   string `json:"store_backend"`
	DatabaseDriver string `json:"database_driver"`
	DatabaseDSN    string `json:"database_dsn"`

	DynamoTable       string `json:"dynamo_table"`
	DynamoRegion      string `json:"dynamo_region"`
	DynamoEndpoint    string `json:"dynamo_endpoint"`
	DynamoAccessKey   string `json:"dynamo_access_key"`
	DynamoSecretKey   string `json:"dynamo_secret_key"`
	DynamoCreateTable *bool  `json:"dynamo_create_table"`

	ContentFile          string `json:"content_file"`
	PerPage              int    `json:"per_page"`
	DisableDefaultPlugin *bool  `json:"disable_default_plugin"`
	CreatedStatus        *bool  `json:"created_status"`
}

// parseJson loads configuration values from the JSON file named by the
// -c or -config flag. Nothing is loaded when neither is given.
// An unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.StoreBackend, c.StoreBackend)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.DynamoTable, c.DynamoTable)
	setString(&config.DynamoRegion, c.DynamoRegion)
	setString(&config.DynamoEndpoint, c.DynamoEndpoint)
	setString(&config.DynamoAccessKey, c.DynamoAccessKey)
	setString(&config.DynamoSecretKey, c.DynamoSecretKey)
	setString(&config.ContentFile, c.ContentFile)
	setBool(&config.DynamoCreateTable, c.DynamoCreateTable)
	setBool(&config.DisableDefaultPlugin, c.DisableDefaultPlugin)
	setBool(&config.CreatedStatus, c.CreatedStatus)
	if c.PerPage > 0 {
		config.PerPage = c.PerPage
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
