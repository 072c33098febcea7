package commands

import (
	"context"
	"io"

	"golang.org/x/oauth2"

	"taskr/internal/config"
	"taskr/internal/session"
)

// SetRunTUI replaces the interactive program for the duration of a test.
func SetRunTUI(f func(context.Context, *session.Session) error) (restore func()) {
	prev := runTUI
	runTUI = f
	return func() { runTUI = prev }
}

// SetOAuth replaces the browser login flow and token check.
func SetOAuth(login func(context.Context, *config.Config, io.Writer) (*oauth2.Token, error), valid func(context.Context, *config.Config) bool) (restore func()) {
	prevLogin, prevValid := oauthLogin, tokenValid
	oauthLogin, tokenValid = login, valid
	return func() { oauthLogin, tokenValid = prevLogin, prevValid }
}
