package session

import (
	"encoding/base64"
	"fmt"
	"os"
)

const (
	// SecretEnvVar is the default environment variable holding the
	// base64-encoded signing secret.
	SecretEnvVar = "JOKEBOX_SESSION_SECRET"

	secretLen = 32
)

// SecretFromEnv reads the signing secret from the named environment
// variable and blanks the variable afterwards, so the secret does not
// linger in the process environment. The value must be the standard
// base64 encoding of exactly 32 bytes.
func SecretFromEnv(varname string, getfn func(string) string, setfn func(string, string) error) ([]byte, error) {
	if getfn == nil {
		getfn = os.Getenv
	}
	if setfn == nil {
		setfn = os.Setenv
	}
	val := getfn(varname)
	setfn(varname, "")
	secret, err := base64.StdEncoding.DecodeString(val)
	if err != nil {
		return nil, fmt.Errorf("session: cannot decode string to valid secret, cause %v", err)
	} else if len(secret) != secretLen {
		return nil, fmt.Errorf("session: decoded secret got %v expecting %v bytes", len(secret), secretLen)
	}
	return secret, nil
}
