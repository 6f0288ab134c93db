package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/gophfeedback/internal/flagx"
)

// duration accepts either a string like "3s" or integer nanoseconds.
type duration time.Duration

func (d *duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case float64:
		*d = duration(time.Duration(x))
	case string:
		parsed, err := time.ParseDuration(x)
		if err != nil {
			return err
		}
		*d = duration(parsed)
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	ServerEndpointAddr  string   `json:"server_endpoint_addr"`
	OnlineCheckInterval duration `json:"online_check_interval"`
	RequestTimeout      duration `json:"request_timeout"`
	Culture             string   `json:"culture"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Fields missing from the file keep their current values.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.OnlineCheckInterval > 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval)
	}
	if jc.RequestTimeout > 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout)
	}
	if jc.Culture != "" {
		cfg.Culture = jc.Culture
	}
}
