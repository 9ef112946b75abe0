package config

import (
	"os"
)

// Config collects the environment-driven settings for the service.
// Storage endpoint URLs have no defaults; the services that need them
// validate their presence.
type Config struct {
	BlobServiceURL  string
	TableServiceURL string
	QueueServiceURL string

	DataContainer    string
	LedgerBlob       string
	RegistryBlob     string
	UploadsContainer string
	ImportQueue      string
	RunLogTable      string

	// DataDir switches the service to local flat files when no blob
	// endpoint is configured.
	DataDir string

	Port string
}

// Load reads the configuration from environment variables.
func Load() *Config {
	return &Config{
		BlobServiceURL:  os.Getenv("BLOB_SERVICE_URL"),
		TableServiceURL: os.Getenv("TABLE_SERVICE_URL"),
		QueueServiceURL: os.Getenv("QUEUE_SERVICE_URL"),

		DataContainer:    getEnv("DATA_CONTAINER", "finance-data"),
		LedgerBlob:       getEnv("LEDGER_BLOB", "ledger.csv"),
		RegistryBlob:     getEnv("REGISTRY_BLOB", "recurring.csv"),
		UploadsContainer: getEnv("UPLOADS_CONTAINER", "uploads"),
		ImportQueue:      getEnv("IMPORT_QUEUE", "import-queue"),
		RunLogTable:      getEnv("RUN_LOG_TABLE", "reconcileruns"),

		DataDir: getEnv("DATA_DIR", ""),

		Port: getEnv("FUNCTIONS_CUSTOMHANDLER_PORT", "8080"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
