package connector

import (
	"net/url"
	"strconv"
)

// DSN builds the postgres:// connection string for the config. Values
// are URL-escaped so credentials with reserved characters survive.
func (c Config) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   c.Host + ":" + strconv.Itoa(c.Port),
		Path:   "/" + c.Database,
	}
	if c.Username != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.Username, c.Password)
		} else {
			u.User = url.User(c.Username)
		}
	}

	q := url.Values{}
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	for k, v := range c.Params {
		if v != "" {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
