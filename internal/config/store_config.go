package config

type StoreConfig interface {
	GetStoreDriver() string
	GetDatabasePath() string
}

type Store struct {
	Driver       string `envconfig:"STORE_DRIVER" default:"sqlite"` // "sqlite" or "memory"
	DatabasePath string `envconfig:"DATABASE_PATH" default:"./data/survey-admin.db"`
}

var _ StoreConfig = Store{}

func (s Store) GetStoreDriver() string {
	return s.Driver
}

func (s Store) GetDatabasePath() string {
	return s.DatabasePath
}
