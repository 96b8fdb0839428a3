package ldap

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"strings"

	"github.com/go-ldap/ldap/v3"
	"github.com/goodbye-jack/ldap-sync/log"
)

const (
	AuthNone   = "none"
	AuthSimple = "simple"

	// Substituted for blank manager credentials so a misconfigured
	// simple bind can never degrade into an anonymous bind.
	sentinelUser     = "undefined-manager"
	sentinelPassword = "undefined-password"
)

// Conn is the subset of the go-ldap connection the sync core uses. It
// is satisfied by *ldap.Conn and swapped for a double in tests.
type Conn interface {
	Bind(username, password string) error
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	Add(req *ldap.AddRequest) error
	Modify(req *ldap.ModifyRequest) error
	Del(req *ldap.DelRequest) error
	ModifyDN(req *ldap.ModifyDNRequest) error
	Close() error
}

// Connector opens and authenticates directory sessions from Config.
type Connector struct {
	cfg  Config
	dial func(url string, tlsConfig *tls.Config) (Conn, error)
}

func NewConnector(cfg Config) *Connector {
	return &Connector{
		cfg: cfg,
		dial: func(url string, tlsConfig *tls.Config) (Conn, error) {
			if tlsConfig != nil {
				return ldap.DialURL(url, ldap.DialWithTLSConfig(tlsConfig))
			}
			return ldap.DialURL(url)
		},
	}
}

// NewConnectorWithDialer swaps the network dialer, used by tests to
// connect to an in-memory directory.
func NewConnectorWithDialer(cfg Config, dial func(url string, tlsConfig *tls.Config) (Conn, error)) *Connector {
	return &Connector{cfg: cfg, dial: dial}
}

func (c *Connector) url() string {
	scheme := "ldap"
	if c.cfg.UseTLS {
		scheme = "ldaps"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, c.cfg.Server, c.cfg.Port)
}

func (c *Connector) tlsConfig() (*tls.Config, error) {
	if !c.cfg.UseTLS {
		return nil, nil
	}
	tlsCfg := &tls.Config{ServerName: c.cfg.Server}
	if c.cfg.CertFile != "" {
		pem, err := os.ReadFile(c.cfg.CertFile)
		if err != nil {
			return nil, err
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificate found in %s", c.cfg.CertFile)
		}
		tlsCfg.RootCAs = pool
	}
	return tlsCfg, nil
}

// Connect opens one authenticated session. Failures are not retried.
func (c *Connector) Connect() (Conn, error) {
	tlsCfg, err := c.tlsConfig()
	if err != nil {
		return nil, ConnectionError{Err: err}
	}
	conn, err := c.dial(c.url(), tlsCfg)
	if err != nil {
		return nil, ConnectionError{Err: err}
	}
	if err := c.authenticate(conn); err != nil {
		conn.Close()
		return nil, ConnectionError{Err: err}
	}
	return conn, nil
}

func (c *Connector) authenticate(conn Conn) error {
	switch c.cfg.Auth {
	case AuthNone:
		return nil
	case AuthSimple:
		user := c.cfg.ManagerUser
		password := c.cfg.ManagerPassword
		if user == "" {
			log.Warn("manager user is blank, substituting sentinel")
			user = sentinelUser
		}
		if password == "" {
			log.Warn("manager password is blank, substituting sentinel")
			password = sentinelPassword
		}
		return conn.Bind(user, password)
	default:
		return c.saslBind(conn)
	}
}

func (c *Connector) saslBind(conn Conn) error {
	for _, mech := range strings.Fields(c.cfg.Auth) {
		if !strings.EqualFold(mech, "DIGEST-MD5") {
			log.Warnf("unsupported SASL mechanism %s skipped", mech)
			continue
		}
		if real, ok := conn.(*ldap.Conn); ok {
			return real.MD5Bind(c.cfg.Server, c.cfg.ManagerUser, c.cfg.ManagerPassword)
		}
		return conn.Bind(c.cfg.ManagerUser, c.cfg.ManagerPassword)
	}
	return fmt.Errorf("no supported SASL mechanism in %q", c.cfg.Auth)
}

// Authenticate verifies a user credential by binding as the user's own
// DN on a throwaway session.
func (c *Connector) Authenticate(dn, password string) error {
	if strings.TrimSpace(password) == "" {
		return ParamsError{Params: []string{"password"}}
	}
	tlsCfg, err := c.tlsConfig()
	if err != nil {
		return ConnectionError{Err: err}
	}
	conn, err := c.dial(c.url(), tlsCfg)
	if err != nil {
		return ConnectionError{Err: err}
	}
	defer conn.Close()
	return conn.Bind(dn, password)
}
