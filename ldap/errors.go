package ldap

import (
	"errors"
	"fmt"

	"github.com/go-ldap/ldap/v3"
)

// ConnectionError means the directory session could not be opened. It
// is fatal to the current operation and never retried here.
type ConnectionError struct {
	Err error
}

func (e ConnectionError) Error() string {
	return fmt.Sprintf("ldap connect failed, %v", e.Err)
}

func (e ConnectionError) Unwrap() error {
	return e.Err
}

// NotFoundError means an expected entry is absent. Callers treat it as
// a normal "no result", not as a failure.
type NotFoundError struct {
	Type string
	ID   interface{}
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s(%v) not found", e.Type, e.ID)
}

// OperationError wraps any other directory failure.
type OperationError struct {
	Op   string
	Type string
	ID   interface{}
	Err  error
}

func (e OperationError) Error() string {
	return fmt.Sprintf("%s %s(%v) failed, %v", e.Op, e.Type, e.ID, e.Err)
}

func (e OperationError) Unwrap() error {
	return e.Err
}

// ConsistencyError reports the two stores disagreeing in a way a single
// operation cannot repair, e.g. an update for an entry that cannot be
// located by its identity key.
type ConsistencyError struct {
	Type   string
	ID     interface{}
	Reason string
}

func (e ConsistencyError) Error() string {
	return fmt.Sprintf("%s(%v) inconsistent: %s", e.Type, e.ID, e.Reason)
}

type ParamsError struct {
	Params []string
}

func (e ParamsError) Error() string {
	return fmt.Sprintf("params %+v error", e.Params)
}

func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// IsAlreadyExists reports whether the underlying directory refused a
// create because the entry is already there.
func IsAlreadyExists(err error) bool {
	var op OperationError
	if errors.As(err, &op) {
		return ldap.IsErrorWithCode(op.Err, ldap.LDAPResultEntryAlreadyExists)
	}
	return ldap.IsErrorWithCode(err, ldap.LDAPResultEntryAlreadyExists)
}

// ldapErr translates go-ldap result codes into the local taxonomy.
func ldapErr(err error, op, typ string, id interface{}) error {
	if err == nil {
		return nil
	}
	if ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject) {
		return NotFoundError{Type: typ, ID: id}
	}
	return OperationError{Op: op, Type: typ, ID: id, Err: err}
}
