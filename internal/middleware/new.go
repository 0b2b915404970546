package middleware

import (
	pkgLog "adalert-srv/pkg/log"
	pkgSlack "adalert-srv/pkg/slack"
)

type Middleware struct {
	l     pkgLog.Logger
	slack pkgSlack.ISlack
}

// New builds the shared middleware set. slack may be nil; panics are then only logged.
func New(l pkgLog.Logger, slack pkgSlack.ISlack) Middleware {
	return Middleware{
		l:     l,
		slack: slack,
	}
}
