package publicapi

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"sigs.k8s.io/yaml"
)

// BasicAuthConfig maps user names to bcrypt password hashes. An empty
// config means the API is served without authentication.
type BasicAuthConfig struct {
	Users map[string]string `json:"basic_auth_users,omitempty"`
}

// LoadBasicAuthConfig reads a YAML users file of the form:
//
//	basic_auth_users:
//	  admin: $2b$12$<bcrypt hash>
//
// Usernames must not contain ':' (RFC 7617 reserves it as the separator)
// and every password must be a well-formed bcrypt hash. Both are checked
// here, at startup, instead of surfacing on somebody's first login.
func LoadBasicAuthConfig(path string) (*BasicAuthConfig, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading auth config: %w", err)
	}

	config := &BasicAuthConfig{}
	if err := yaml.UnmarshalStrict(payload, config); err != nil {
		return nil, fmt.Errorf("parsing auth config %q: %w", path, err)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// validate collects every bad entry in one pass so the operator can fix the
// whole file at once.
func (c *BasicAuthConfig) validate() error {
	var errs *multierror.Error
	for username, hash := range c.Users {
		if strings.ContainsRune(username, ':') {
			errs = multierror.Append(errs, fmt.Errorf("invalid username %q: colons are not allowed in basic auth", username))
		}
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("user %q has an invalid bcrypt hash: %w", username, err))
		}
	}
	return errs.ErrorOrNil()
}

// Enabled reports whether any users are configured.
func (c *BasicAuthConfig) Enabled() bool {
	return c != nil && len(c.Users) > 0
}

// Authenticate checks one username and password pair.
func (c *BasicAuthConfig) Authenticate(username, password string) bool {
	hash, ok := c.Users[username]
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Middleware guards next with HTTP basic auth. With no users configured it
// returns next untouched.
func (c *BasicAuthConfig) Middleware(next http.Handler) http.Handler {
	if !c.Enabled() {
		return next
	}
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		username, password, ok := req.BasicAuth()
		if !ok || !c.Authenticate(username, password) {
			log.Ctx(req.Context()).Debug().Msgf("rejecting unauthenticated request from %s", req.RemoteAddr)
			res.Header().Set("WWW-Authenticate", `Basic realm="restricted", charset="UTF-8"`)
			http.Error(res, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(res, req)
	})
}
