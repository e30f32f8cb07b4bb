package storage

import (
	"fmt"

	"github.com/spf13/viper"
)

// Имена бэкендов, допустимые в конфигурации
const (
	BackendNameLocal      = "local"
	BackendNameS3         = "s3"
	BackendNameCloudinary = "cloudinary"
	BackendNameAzureBlob  = "azblob"
	BackendNameSupabase   = "supabase"
)

// Config описывает выбор активного бэкенда и его учётные данные.
// Читается один раз при старте; на лету бэкенд не переключается.
type Config struct {
	Backend    string           `mapstructure:"Backend"`
	LocalRoot  string           `mapstructure:"LocalRoot"`
	S3         S3Config         `mapstructure:"S3"`
	Cloudinary CloudinaryConfig `mapstructure:"Cloudinary"`
	AzureBlob  AzureBlobConfig  `mapstructure:"AzureBlob"`
	Supabase   SupabaseConfig   `mapstructure:"Supabase"`
}

type S3Config struct {
	AccessKeyID     string `mapstructure:"AccessKeyID"`
	SecretAccessKey string `mapstructure:"SecretAccessKey"`
	Bucket          string `mapstructure:"Bucket"`
	Endpoint        string `mapstructure:"Endpoint"`
	Region          string `mapstructure:"Region"`
}

type CloudinaryConfig struct {
	CloudName string `mapstructure:"CloudName"`
	APIKey    string `mapstructure:"APIKey"`
	APISecret string `mapstructure:"APISecret"`
}

type AzureBlobConfig struct {
	ConnectionString string `mapstructure:"ConnectionString"`
	Container        string `mapstructure:"Container"`
}

type SupabaseConfig struct {
	URL        string `mapstructure:"URL"`
	ServiceKey string `mapstructure:"ServiceKey"`
	Bucket     string `mapstructure:"Bucket"`
}

func NewConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.BindEnv("Backend", "STORAGE_BACKEND")
	v.BindEnv("LocalRoot", "STORAGE_LOCAL_ROOT")
	v.BindEnv("S3.AccessKeyID", "S3_ACCESS_KEY_ID")
	v.BindEnv("S3.SecretAccessKey", "S3_SECRET_ACCESS_KEY")
	v.BindEnv("S3.Bucket", "S3_BUCKET")
	v.BindEnv("S3.Endpoint", "S3_ENDPOINT")
	v.BindEnv("S3.Region", "S3_REGION")
	v.BindEnv("Cloudinary.CloudName", "CLOUDINARY_CLOUD_NAME")
	v.BindEnv("Cloudinary.APIKey", "CLOUDINARY_API_KEY")
	v.BindEnv("Cloudinary.APISecret", "CLOUDINARY_API_SECRET")
	v.BindEnv("AzureBlob.ConnectionString", "AZURE_BLOB_CONNECTION_STRING")
	v.BindEnv("AzureBlob.Container", "AZURE_BLOB_CONTAINER")
	v.BindEnv("Supabase.URL", "SUPABASE_URL")
	v.BindEnv("Supabase.ServiceKey", "SUPABASE_SERVICE_KEY")
	v.BindEnv("Supabase.Bucket", "SUPABASE_BUCKET")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Warning: using only environment variables for storage config: %v\n", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("cannot unmarshal storage config: %w", err)
	}

	// Значения по умолчанию
	if cfg.Backend == "" {
		cfg.Backend = BackendNameLocal
	}
	if cfg.LocalRoot == "" {
		cfg.LocalRoot = "./uploads"
	}

	switch cfg.Backend {
	case BackendNameLocal, BackendNameS3, BackendNameCloudinary, BackendNameAzureBlob, BackendNameSupabase:
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	return &cfg, nil
}
