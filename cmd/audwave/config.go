// SPDX-License-Identifier: EPL-2.0

package main

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/ik5/audwave"
	"github.com/ik5/audwave/waveform"
)

const envPrefix = "AUDWAVE_"

// loadDotEnv reads .env from the working directory. Variables already set in
// the environment win.
func loadDotEnv() {
	_ = godotenv.Load()
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(envPrefix + key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(envPrefix + key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(envPrefix + key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(envPrefix + key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// configFromEnv starts from the library defaults and applies AUDWAVE_*
// variables. Malformed values are ignored.
func configFromEnv() audwave.Config {
	cfg := audwave.DefaultConfig()

	cfg.Buckets = getEnvInt("BUCKETS", cfg.Buckets)
	cfg.QuantizationBits = getEnvInt("BITS", cfg.QuantizationBits)
	if m, err := waveform.ParseMode(getEnv("MODE", cfg.Mode.String())); err == nil {
		cfg.Mode = m
	}
	cfg.Codec = getEnv("CODEC", cfg.Codec)
	cfg.Bitrate = getEnvInt("BITRATE", cfg.Bitrate)
	cfg.Complexity = getEnvInt("COMPLEXITY", cfg.Complexity)
	cfg.ResampleRate = getEnvInt("RESAMPLE_RATE", cfg.ResampleRate)
	cfg.FallbackRate = getEnvInt("FALLBACK_RATE", cfg.FallbackRate)
	cfg.PreserveChannels = getEnvBool("PRESERVE_CHANNELS", cfg.PreserveChannels)
	cfg.MaxInputBytes = getEnvInt("MAX_INPUT_BYTES", cfg.MaxInputBytes)
	cfg.MaxDuration = getEnvDuration("MAX_DURATION", cfg.MaxDuration)
	cfg.StreamSerial = uint32(getEnvInt("STREAM_SERIAL", int(cfg.StreamSerial)))

	return cfg
}

func logConfigFromEnv() logConfig {
	return logConfig{
		Level:      getEnv("LOG_LEVEL", "warn"),
		OutputPath: getEnv("LOG_FILE", ""),
		MaxSize:    getEnvInt("LOG_MAX_SIZE", 100),
		MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
		MaxAge:     getEnvInt("LOG_MAX_AGE", 28),
		Compress:   getEnvBool("LOG_COMPRESS", false),
	}
}
