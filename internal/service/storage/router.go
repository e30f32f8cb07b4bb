package storage

import "fmt"

// Router держит единственный активный бэкенд процесса.
// Выбор происходит один раз при старте; после этого значение неизменяемо
// и безопасно разделяется между одновременными запросами без блокировок.
type Router struct {
	backend Backend
	local   *LocalBackend
}

// NewRouter конструирует активный бэкенд по конфигурации.
// Локальный бэкенд создаётся всегда: он либо активен сам, либо служит
// fallback-назначением для supabase и корнем для резолвера документов.
func NewRouter(conf *Config) (*Router, error) {
	local, err := NewLocalBackend(conf.LocalRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to init local storage: %w", err)
	}

	var backend Backend
	switch conf.Backend {
	case BackendNameLocal:
		backend = local
	case BackendNameS3:
		backend, err = NewS3Backend(conf.S3)
	case BackendNameCloudinary:
		backend, err = NewCloudinaryBackend(conf.Cloudinary)
	case BackendNameAzureBlob:
		backend, err = NewAzureBlobBackend(conf.AzureBlob)
	case BackendNameSupabase:
		backend = NewSupabaseBackend(conf.Supabase, local)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", conf.Backend)
	}
	if err != nil {
		return nil, err
	}

	return &Router{backend: backend, local: local}, nil
}

// Backend возвращает активный бэкенд
func (r *Router) Backend() Backend { return r.backend }

// LocalRoot возвращает управляемый корень локального хранилища
func (r *Router) LocalRoot() string { return r.local.Root() }
