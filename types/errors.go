package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind tags an *Error so callers can switch on the failure class
// instead of matching messages.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindValidation: malformed request, detected before any store access.
	KindValidation
	// KindNotFound: a referenced item or counterparty code does not exist.
	KindNotFound
	// KindConflict: duplicate reference number or a foreign-key violation.
	KindConflict
	// KindInsufficientBalance: an outbound movement would drive balance negative.
	KindInsufficientBalance
	// KindDurability: the transaction committed in memory but the snapshot
	// write failed. Never coalesced with the other kinds.
	KindDurability
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInsufficientBalance:
		return "insufficient_balance"
	case KindDurability:
		return "durability"
	default:
		return "unknown"
	}
}

// Sentinels reachable through errors.Is on the matching *Error.
var (
	ErrReferenceExists     = errors.New("reference already exists")
	ErrForeignKeyViolation = errors.New("foreign key violation")
)

// FieldError names one invalid request field.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// Error is the engine's tagged error. Only the fields relevant to Kind are set.
type Error struct {
	Kind ErrorKind

	// Entity and Code identify the offending record ("item", "BRG-001").
	Entity string
	Code   string

	// Requested and Available are set for KindInsufficientBalance.
	Requested int
	Available int

	// Fields is set for KindValidation.
	Fields []FieldError

	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	switch e.Kind {
	case KindNotFound:
		fmt.Fprintf(&b, "referenced %s not found: %s", e.Entity, e.Code)
	case KindInsufficientBalance:
		fmt.Fprintf(&b, "insufficient balance for item %s: requested %d, available %d",
			e.Code, e.Requested, e.Available)
	default:
		b.WriteString(e.Message)
	}
	if e.Err != nil && e.Kind != KindNotFound && e.Kind != KindInsufficientBalance {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Validation builds a KindValidation error.
func Validation(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// NotFound builds a KindNotFound error for entity/code.
func NotFound(entity, code string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, Code: code}
}

// ReferenceExists reports a duplicate transaction reference number.
func ReferenceExists(refNo string, cause error) *Error {
	return &Error{
		Kind:    KindConflict,
		Code:    refNo,
		Message: "reference " + refNo,
		Err:     errors.Join(ErrReferenceExists, cause),
	}
}

// ForeignKeyConflict reports a store-level referential integrity violation.
func ForeignKeyConflict(message string, cause error) *Error {
	return &Error{
		Kind:    KindConflict,
		Message: message,
		Err:     errors.Join(ErrForeignKeyViolation, cause),
	}
}

// InsufficientBalance reports an outbound movement larger than the balance.
func InsufficientBalance(itemCode string, requested, available int) *Error {
	return &Error{
		Kind:      KindInsufficientBalance,
		Entity:    "item",
		Code:      itemCode,
		Requested: requested,
		Available: available,
	}
}

// Durability reports a snapshot failure after a committed transaction.
func Durability(cause error) *Error {
	return &Error{
		Kind:    KindDurability,
		Message: "transaction committed but snapshot write failed",
		Err:     cause,
	}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries an *Error of kind k.
func IsKind(err error, k ErrorKind) bool {
	return err != nil && KindOf(err) == k
}
