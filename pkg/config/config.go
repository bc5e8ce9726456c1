// Package config reads tool settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"os"
	"strconv"

	"github.com/golang/glog"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config holds everything the apps read from the environment.
type Config struct {
	Root   string
	Strict bool

	Minio MinioConfig

	Namespace  string
	Image      string
	Kubeconfig string
}

// MinioConfig holds the object storage settings used by -upload.
type MinioConfig struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
}

// Load reads envFile (if it exists) into the process environment without
// overriding variables already set, then builds a Config from it.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(errors.Cause(err)) {
			return nil, errors.Wrapf(err, "loading %s", envFile)
		} else if err == nil {
			glog.V(1).Infof("loaded environment from %s", envFile)
		}
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from the current environment.
func FromEnv() *Config {
	return &Config{
		Root:   getEnv("GLYPH_ROOT", "."),
		Strict: getEnvBool("GLYPH_STRICT", false),
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "http://localhost:9000"),
			Region:    getEnv("MINIO_REGION", "us-east-1"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "glyphs"),
			Prefix:    getEnv("MINIO_PREFIX", ""),
		},
		Namespace:  getEnv("KUBE_NAMESPACE", "default"),
		Image:      getEnv("KUBE_IMAGE", "ghcr.io/phantominthewire/glyphsheet:latest"),
		Kubeconfig: getEnv("KUBECONFIG", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		glog.Warningf("ignoring %s=%q: not a boolean", key, v)
	}
	return fallback
}
