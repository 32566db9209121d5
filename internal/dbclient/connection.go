package dbclient

import "time"

// Driver represents the type of database engine.
type Driver string

const (
	DriverMySQL    Driver = "mysql"
	DriverPostgres Driver = "postgres"
	DriverMongoDB  Driver = "mongodb"
	DriverSQLite   Driver = "sqlite"
)

// Connection holds the metadata for connecting to an external database.
// The password is stored separately in the SecretStore (e.g. macOS
// Keychain) and passed to NewConnector at open time.
type Connection struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Driver    Driver    `json:"driver"`
	Host      string    `json:"host"`     // hostname or file path (sqlite)
	Port      int       `json:"port"`     // 0 for sqlite
	Database  string    `json:"database"` // db name or empty for sqlite
	Username  string    `json:"username"`
	SSLMode   string    `json:"sslMode"`
	ExtraJSON string    `json:"extraJson"` // driver-specific options
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
