package version

// Version is the current schema/application version. Bump the minor part
// whenever the database schema changes.
var Version = "0.1.0"

func GetCurrentVersion() string {
	return Version
}
