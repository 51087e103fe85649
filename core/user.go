package core

import (
	"os"
	"os/user"
	"strconv"
)

// EnvUser is consulted when the effective user has no passwd entry.
const EnvUser = "USER"

// CurrentUser gets the name of the effective user.
func CurrentUser() string {
	if u, err := user.LookupId(strconv.Itoa(os.Geteuid())); err == nil {
		return u.Username
	}
	if name := os.Getenv(EnvUser); name != "" {
		return name
	}
	return strconv.Itoa(os.Geteuid())
}
