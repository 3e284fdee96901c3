// Package common defines the sentinel errors shared by the archive client and
// the feed server. Callers should match them with errors.Is.
package common

import "errors"

var (
	// Local store errors. ErrStorageUnavailable tags every failure of the
	// durable engine so callers can degrade to in-memory operation.
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrNotFound           = errors.New("not found")

	// Remote feed errors.
	ErrRemoteFetchFailed   = errors.New("remote fetch failed")
	ErrRemotePublishFailed = errors.New("remote publish failed")
	ErrUnauthorized        = errors.New("unauthorized")

	// Validation / backup errors.
	ErrInvalidItem         = errors.New("invalid item")
	ErrInvalidBackupFormat = errors.New("invalid backup format")
	ErrNonDurableContent   = errors.New("non-durable content")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
