// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration: CoreConfig handles ports,
// TLS, logging level, CORS and the like.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionDomain string // Cookie domain (blank means current host)

	// AdminEmail identifies the one system administrator. Role resolution
	// matches it case-insensitively; empty disables the admin role.
	AdminEmail string
}
