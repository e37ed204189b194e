package firebase

import "errors"

var (
	// ErrProjectIDNotInCredentials is returned when service account credentials carry no project_id
	ErrProjectIDNotInCredentials = errors.New("project_id not found in credentials")
)
