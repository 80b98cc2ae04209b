package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultConfigFile = "skugraph.yml"

// Load builds the config from the optional YAML file and the environment.
// Environment variables win over the file.
func Load() (*Config, error) {
	file, err := loadFile()
	if err != nil {
		return nil, err
	}

	skuDir := os.Getenv("SKUGRAPH_SKU_DIR")
	if skuDir == "" {
		skuDir = file.SKUDir
	}
	if skuDir == "" {
		skuDir = "SKUs"
	}

	snapshot := os.Getenv("SKUGRAPH_SNAPSHOT")
	if snapshot == "" {
		snapshot = file.Snapshot
	}

	reload := os.Getenv("SKUGRAPH_RELOAD")
	if reload == "" {
		reload = file.Reload
	}

	debug := file.Debug
	if v := os.Getenv("SKUGRAPH_DEBUG"); v != "" {
		debug = v == "true"
	}

	return &Config{
		SKUDir:         skuDir,
		SnapshotPath:   snapshot,
		ReloadSchedule: reload,
		Debug:          debug,
		Bucket:         loadBucketConfig(file.Bucket),
	}, nil
}

func loadFile() (FileConfig, error) {
	var file FileConfig

	path := os.Getenv("SKUGRAPH_CONFIG")
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// the default file is optional, an explicit one is not
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return file, nil
		}
		return file, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("parse config %s: %w", path, err)
	}

	return file, nil
}

func loadBucketConfig(file FileBucket) BucketConfig {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = file.Endpoint
	}
	if endpoint == "" {
		endpoint = "minio:9000"
	}

	name := os.Getenv("SKUGRAPH_BUCKET")
	if name == "" {
		name = file.Name
	}
	if name == "" {
		name = "skugraph"
	}

	prefix := os.Getenv("SKUGRAPH_BUCKET_PREFIX")
	if prefix == "" {
		prefix = file.Prefix
	}

	useSSL := file.UseSSL
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		useSSL = v == "true"
	}

	accessKey := os.Getenv("MINIO_ACCESS_KEY")
	secretKey := os.Getenv("MINIO_SECRET_KEY")

	return BucketConfig{
		Enabled:   accessKey != "" && secretKey != "",
		Endpoint:  endpoint,
		AccessKey: accessKey,
		SecretKey: secretKey,
		UseSSL:    useSSL,
		Name:      name,
		Prefix:    prefix,
	}
}
