package adapter

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// DetectAdapter guesses the adapter name from a DSN. It returns "" when the
// DSN carries no recognisable hint.
func DetectAdapter(dsn string) string {
	lower := strings.ToLower(dsn)
	switch {
	case strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(lower, "mysql://"):
		return "mysql"
	case strings.HasPrefix(lower, "sqlite://") || strings.HasPrefix(lower, "file:"):
		return "sqlite"
	case strings.HasPrefix(lower, "duckdb://"):
		return "duckdb"
	case strings.HasSuffix(lower, ".db") || strings.HasSuffix(lower, ".sqlite") || strings.HasSuffix(lower, ".sqlite3"):
		return "sqlite"
	case strings.HasSuffix(lower, ".duckdb"):
		return "duckdb"
	case strings.Contains(lower, "@tcp("):
		return "mysql"
	}
	if strings.Contains(dsn, "@") {
		return "postgres"
	}
	return ""
}

// ConnParams holds the individual connection flags used to compose a DSN.
type ConnParams struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	File     string
}

// BuildDSN composes a driver connection string for adapterName.
func BuildDSN(adapterName string, p ConnParams) string {
	host := p.Host
	if host == "" {
		host = "localhost"
	}

	switch adapterName {
	case "postgres":
		u := &url.URL{
			Scheme: "postgres",
			Host:   host,
		}
		if p.User != "" {
			if p.Password != "" {
				u.User = url.UserPassword(p.User, p.Password)
			} else {
				u.User = url.User(p.User)
			}
		}
		if p.Port > 0 {
			u.Host = fmt.Sprintf("%s:%d", host, p.Port)
		}
		if p.Database != "" {
			u.Path = "/" + p.Database
		}
		return u.String()

	case "mysql":
		port := p.Port
		if port == 0 {
			port = 3306
		}
		cfg := mysql.NewConfig()
		cfg.User = p.User
		cfg.Passwd = p.Password
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(host, strconv.Itoa(port))
		cfg.DBName = p.Database
		return cfg.FormatDSN()

	case "sqlite", "duckdb":
		if p.File != "" {
			return p.File
		}
		if p.Database != "" {
			return p.Database
		}
		return ":memory:"
	}
	return ""
}
