// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package importer

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// ErrIncompleteDSN is returned when a URL DSN lacks a user, host or database.
var ErrIncompleteDSN = errors.New("dsn must include user, host and database")

// DriverDSN converts dsn into a go-sql-driver/mysql DSN. URL forms with the
// mysql or mariadb scheme are translated; anything else is parsed as a driver
// DSN. The result always has parseTime enabled and reads times as UTC.
func DriverDSN(dsn string) (string, error) {
	var (
		cfg *mysql.Config
		err error
	)
	if strings.HasPrefix(dsn, "mysql://") || strings.HasPrefix(dsn, "mariadb://") {
		cfg, err = configFromURL(dsn)
	} else {
		cfg, err = mysql.ParseDSN(dsn)
	}
	if err != nil {
		return "", err
	}

	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.InterpolateParams = true
	return cfg.FormatDSN(), nil
}

func configFromURL(raw string) (*mysql.Config, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	user, pass := "", ""
	if u.User != nil {
		user = u.User.Username()
		pass, _ = u.User.Password()
	}
	db := strings.TrimPrefix(u.Path, "/")
	if user == "" || u.Host == "" || db == "" {
		return nil, ErrIncompleteDSN
	}

	addr := u.Host
	if u.Port() == "" {
		addr = net.JoinHostPort(u.Hostname(), "3306")
	}

	// Driver parameters ride along in the query string; ParseDSN validates
	// the ones it knows and keeps the rest as session variables.
	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s", user, pass, addr, db)
	if u.RawQuery != "" {
		dsn += "?" + u.RawQuery
	}
	return mysql.ParseDSN(dsn)
}
