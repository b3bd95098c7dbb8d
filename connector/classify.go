package connector

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/stratumlabs/pgbatch/pgerr"
)

// SQLSTATE codes that matter for connect-time diagnosis.
const (
	codeInvalidPassword      = "28P01"
	codeInvalidAuthorization = "28000"
	codeInvalidCatalogName   = "3D000"
)

// ClassifyError maps a connect-time failure to a human-readable
// classification so operators can tell a refused port from a DNS miss
// or a bad password without reading driver internals. The original
// error stays wrapped for errors.Is/As.
func ClassifyError(err error) *pgerr.ConnectionError {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeInvalidPassword, codeInvalidAuthorization:
			return &pgerr.ConnectionError{Kind: pgerr.ConnAuthFailed, Err: err}
		case codeInvalidCatalogName:
			return &pgerr.ConnectionError{Kind: pgerr.ConnDatabaseMissing, Err: err}
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsNotFound {
			return &pgerr.ConnectionError{Kind: pgerr.ConnHostNotFound, Err: err}
		}
		return &pgerr.ConnectionError{Kind: pgerr.ConnDNSFailure, Err: err}
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return &pgerr.ConnectionError{Kind: pgerr.ConnRefused, Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &pgerr.ConnectionError{Kind: pgerr.ConnTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &pgerr.ConnectionError{Kind: pgerr.ConnTimeout, Err: err}
	}

	if strings.Contains(err.Error(), "SSL") || strings.Contains(err.Error(), "tls:") {
		return &pgerr.ConnectionError{Kind: pgerr.ConnSSLFailure, Err: err}
	}

	return &pgerr.ConnectionError{Kind: pgerr.ConnUnknown, Err: err}
}
