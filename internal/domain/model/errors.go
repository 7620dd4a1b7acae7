package model

import (
	"errors"
	"fmt"
)

// NetworkError is a transport-level failure: the request never produced an
// HTTP response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: erreur de connexion au serveur: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPStatusError is a response received with a status outside 2xx.
type HTTPStatusError struct {
	Status  int
	Message string
}

func (e *HTTPStatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("statut HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("statut HTTP %d", e.Status)
}

// NotFoundError means the backend reported no match for the query. Callers
// treat it as a valid empty state, not a failure to surface.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("aucune donnée pour %s", e.Resource)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// DataFetchError is the single failure type of the statistics client: HTTP
// status (0 for transport failures) plus a human-readable reason. The
// component layer renders a "no data" state instead of propagating it.
type DataFetchError struct {
	Status int
	Reason string
}

func (e *DataFetchError) Error() string {
	return fmt.Sprintf("récupération des données échouée (statut %d): %s", e.Status, e.Reason)
}

// ValidationError is a client-side input check failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
