package models

import "strings"

// BcryptPrefix marks stored passwords that are bcrypt hashes.
const BcryptPrefix = "$2"

type CredentialKind int

const (
	CredentialPlaintextLegacy CredentialKind = iota
	CredentialHashed
)

func (k CredentialKind) String() string {
	if k == CredentialHashed {
		return "hashed"
	}
	return "plaintext_legacy"
}

// Credential is a stored password, tagged once when it is loaded.
type Credential struct {
	kind  CredentialKind
	value string
}

func Hashed(hash string) Credential {
	return Credential{kind: CredentialHashed, value: hash}
}

func PlaintextLegacy(password string) Credential {
	return Credential{kind: CredentialPlaintextLegacy, value: password}
}

// ParseCredential tags a stored password column value.
func ParseCredential(stored string) Credential {
	if strings.HasPrefix(stored, BcryptPrefix) {
		return Hashed(stored)
	}
	return PlaintextLegacy(stored)
}

func (c Credential) Kind() CredentialKind { return c.kind }

// Value is the raw stored value: a hash or the legacy plaintext.
func (c Credential) Value() string { return c.value }

func (c Credential) IsHashed() bool { return c.kind == CredentialHashed }
