package config

type Config struct {
	SKUDir         string
	SnapshotPath   string
	ReloadSchedule string
	Debug          bool
	Bucket         BucketConfig
}

type BucketConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Name      string
	Prefix    string
}

// FileConfig is the YAML config file. Credentials are only read from the
// environment, so they have no field here.
type FileConfig struct {
	SKUDir   string     `yaml:"sku_dir,omitempty"`
	Snapshot string     `yaml:"snapshot,omitempty"`
	Reload   string     `yaml:"reload,omitempty"`
	Debug    bool       `yaml:"debug,omitempty"`
	Bucket   FileBucket `yaml:"bucket,omitempty"`
}

type FileBucket struct {
	Endpoint string `yaml:"endpoint,omitempty"`
	Name     string `yaml:"name,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
	UseSSL   bool   `yaml:"use_ssl,omitempty"`
}
