package ldap

import (
	"github.com/goodbye-jack/ldap-sync/log"
)

// Template runs one unit of work against a single directory session:
// connect, authenticate, run the closure, close on every exit path.
// NotFound errors are logged and swallowed, the DAO layer reports
// absence through its return values instead.
type Template struct {
	connector *Connector
}

func NewTemplate(connector *Connector) *Template {
	return &Template{connector: connector}
}

func (t *Template) Connector() *Connector {
	return t.connector
}

func (t *Template) Execute(fn func(conn Conn) error) error {
	conn, err := t.connector.Connect()
	if err != nil {
		log.Errorf("%v", err)
		return err
	}
	defer conn.Close()

	if err := fn(conn); err != nil {
		if IsNotFound(err) {
			log.Infof("%v", err)
			return nil
		}
		log.Errorf("%v", err)
		return err
	}
	return nil
}
