package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Storage StorageConfig `mapstructure:"storage"`
	Store   StoreConfig   `mapstructure:"store"`
	Study   StudyConfig   `mapstructure:"study"`
}

// ServerConfig contains the settings of the local JSON API.
type ServerConfig struct {
	Host string `mapstructure:"host" validate:"required"`
	Port int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// Storage drivers
const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
	DriverMemory = "memory"
)

// StorageConfig selects the durable key-value backend.
// Path is a database file for sqlite and a directory for file. It is
// ignored by the memory driver.
type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=sqlite file memory"`
	Path   string `mapstructure:"path"`
}

// StoreConfig tunes the card store.
type StoreConfig struct {
	// DebounceWindow is the quiescence delay before a coalesced write.
	DebounceWindow time.Duration `mapstructure:"debounce_window" validate:"gt=0"`
	// LoadBatchSize is the number of flashcards appended per loader turn.
	LoadBatchSize int `mapstructure:"load_batch_size" validate:"gt=0"`
	// WriteRetries is how many times a failed write is retried.
	WriteRetries int `mapstructure:"write_retries" validate:"gte=0,lte=10"`
	// WriterWorkers is the size of the persistence worker pool.
	WriterWorkers int `mapstructure:"writer_workers" validate:"gt=0"`
}

// StudyConfig tunes study sessions.
type StudyConfig struct {
	// Seed fixes the shuffle order for reproducible runs. Zero draws a
	// random seed for every process.
	Seed uint64 `mapstructure:"seed"`
}
