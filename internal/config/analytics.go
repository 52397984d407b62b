package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// AnalyticsConfig holds configuration for the analytics command.
type AnalyticsConfig struct {
	RPCURL   string
	Pair     string
	Input    string
	Prices   map[string]string
	Now      string
	PGDSN    string
	LogLevel string
}

// LoadAnalytics merges config file, environment variables, and flags into AnalyticsConfig.
func LoadAnalytics(cfgFile string, flags *pflag.FlagSet) (AnalyticsConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"in":        "./data/swaps.jsonl",
		"log-level": "info",
	})
	if err != nil {
		return AnalyticsConfig{}, err
	}

	cfg := AnalyticsConfig{
		RPCURL:   v.GetString("rpc"),
		Pair:     v.GetString("pair"),
		Input:    v.GetString("in"),
		Prices:   getStringMap(v.Get("prices")),
		Now:      v.GetString("now"),
		PGDSN:    v.GetString("pg-dsn"),
		LogLevel: v.GetString("log-level"),
	}

	return cfg, nil
}

// ParseTimestamp parses a timestamp value (unix seconds or RFC3339).
func ParseTimestamp(input string) (int64, error) {
	if strings.TrimSpace(input) == "" {
		return 0, nil
	}

	if isNumeric(input) {
		val, err := strconv.ParseInt(input, 10, 64)
		if err != nil {
			return 0, err
		}
		return val, nil
	}

	tm, err := time.Parse(time.RFC3339, input)
	if err != nil {
		return 0, err
	}
	return tm.Unix(), nil
}

func isNumeric(input string) bool {
	for _, r := range input {
		if r < '0' || r > '9' {
			return false
		}
	}
	return input != ""
}

func getStringMap(val interface{}) map[string]string {
	switch typed := val.(type) {
	case map[string]string:
		return typed
	case map[string]interface{}:
		out := make(map[string]string, len(typed))
		for k, v := range typed {
			out[k] = fmt.Sprintf("%v", v)
		}
		return out
	case string:
		return parseStringMap(typed)
	default:
		return map[string]string{}
	}
}

func parseStringMap(input string) map[string]string {
	out := make(map[string]string)
	if strings.TrimSpace(input) == "" {
		return out
	}
	pairs := strings.Split(input, ",")
	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	return out
}
