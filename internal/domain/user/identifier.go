package user

import "strings"

// IdentifierKind tags which identifiers an Identifier carries.
type IdentifierKind int

const (
	IdentifierNone IdentifierKind = iota
	IdentifierEmail
	IdentifierMobile
	IdentifierEither
)

// Identifier selects a user (and that user's OTP records) by email, mobile, or both.
// When both are present a row must match both values.
type Identifier struct {
	kind   IdentifierKind
	email  string
	mobile string
}

func ByEmail(email string) Identifier {
	return Identifier{kind: IdentifierEmail, email: email}
}

func ByMobile(mobile string) Identifier {
	return Identifier{kind: IdentifierMobile, mobile: mobile}
}

func ByEither(email, mobile string) Identifier {
	return Identifier{kind: IdentifierEither, email: email, mobile: mobile}
}

// NewIdentifier builds the filter from whichever values were supplied.
// ok is false when neither was.
func NewIdentifier(email, mobile string) (Identifier, bool) {
	email = strings.TrimSpace(email)
	mobile = strings.TrimSpace(mobile)

	switch {
	case email != "" && mobile != "":
		return ByEither(email, mobile), true
	case email != "":
		return ByEmail(email), true
	case mobile != "":
		return ByMobile(mobile), true
	default:
		return Identifier{}, false
	}
}

func (i Identifier) Kind() IdentifierKind { return i.kind }

func (i Identifier) Email() string { return i.email }

func (i Identifier) Mobile() string { return i.mobile }

func (i Identifier) HasEmail() bool {
	return i.kind == IdentifierEmail || i.kind == IdentifierEither
}

func (i Identifier) HasMobile() bool {
	return i.kind == IdentifierMobile || i.kind == IdentifierEither
}

// Matches reports whether a row with the given email and mobile is selected.
func (i Identifier) Matches(email, mobile string) bool {
	switch i.kind {
	case IdentifierEmail:
		return email == i.email
	case IdentifierMobile:
		return mobile == i.mobile
	case IdentifierEither:
		return email == i.email && mobile == i.mobile
	default:
		return false
	}
}

func (i Identifier) String() string {
	switch i.kind {
	case IdentifierEmail:
		return "email:" + i.email
	case IdentifierMobile:
		return "mobile:" + i.mobile
	case IdentifierEither:
		return "email:" + i.email + ",mobile:" + i.mobile
	default:
		return "none"
	}
}
