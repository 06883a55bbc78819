package data

import (
	"os"
	"strings"
)

// GetMySQLDSN returns the MySQL DSN configured via environment. An empty DSN
// means the settings table is not used.
func GetMySQLDSN() string {
	return strings.TrimSpace(os.Getenv("MYSQL_DSN"))
}
