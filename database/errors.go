package database

import "errors"

var (
	// ErrVoterNotFound no voter record with the requested id
	ErrVoterNotFound = errors.New("voter record not found")
	// ErrDuplicateVoter another record already occupies the same normalized
	// identity (first name, last name, street number, street name)
	ErrDuplicateVoter = errors.New("duplicate voter record")
	// ErrRunNotFound no match run with the requested id
	ErrRunNotFound = errors.New("match run not found")
)
