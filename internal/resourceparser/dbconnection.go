// Licensed to Elasticsearch B.V. under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. Elasticsearch B.V. licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package resourceparser // import "github.com/aws-appsignals/opentelemetry-collector-components/internal/resourceparser"

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrInvalidDBConnection is returned when no host can be found in a
// database connection string.
var ErrInvalidDBConnection = errors.New("invalid db connection string")

// defaultPorts lists the ports implied by well known URL schemes.
var defaultPorts = map[string]string{
	"http":  "80",
	"ws":    "80",
	"https": "443",
	"wss":   "443",
	"ftp":   "21",
}

// DefaultPort returns the port implied by scheme, if any.
func DefaultPort(scheme string) (string, bool) {
	p, ok := defaultPorts[strings.ToLower(scheme)]
	return p, ok
}

// DBConnection is the address part of a database connection string.
type DBConnection struct {
	Host string
	Port string
}

// String renders the connection as host, or host|port when the port is
// known. No escaping is applied.
func (c DBConnection) String() string {
	if c.Port == "" {
		return c.Host
	}
	return c.Host + "|" + c.Port
}

// ParseDBConnection extracts the server address from a connection string.
// URIs such as mysql://host:3306/db are tried first; Go MySQL DSNs with an
// explicit address, such as user:pass@tcp(host:3306)/db, are accepted as
// a fallback.
func ParseDBConnection(connectionString string) (DBConnection, error) {
	if c, ok := parseURI(connectionString); ok {
		return c, nil
	}
	if c, ok := parseMySQLDSN(connectionString); ok {
		return c, nil
	}
	return DBConnection{}, fmt.Errorf("%w: %q", ErrInvalidDBConnection, connectionString)
}

func parseURI(s string) (DBConnection, bool) {
	u, err := url.Parse(s)
	if err != nil || u.Hostname() == "" {
		return DBConnection{}, false
	}
	c := DBConnection{Host: u.Hostname(), Port: u.Port()}
	if c.Port == "" {
		c.Port, _ = DefaultPort(u.Scheme)
	}
	return c, true
}

func parseMySQLDSN(s string) (DBConnection, bool) {
	cfg, err := mysql.ParseDSN(s)
	if err != nil || cfg.Addr == "" {
		return DBConnection{}, false
	}
	// ParseDSN fills in a default address; only trust one that was
	// written out in the DSN.
	if !strings.Contains(s, "("+cfg.Addr+")") {
		return DBConnection{}, false
	}
	if cfg.Net == "unix" {
		return DBConnection{Host: cfg.Addr}, true
	}
	host, port, err := net.SplitHostPort(cfg.Addr)
	if err != nil {
		return DBConnection{Host: cfg.Addr}, true
	}
	if host == "" {
		return DBConnection{}, false
	}
	return DBConnection{Host: host, Port: port}, true
}
