// Package store publishes certificate artifacts to publicly readable object
// storage. There are two backends: AWS S3 and a local filesystem for offline
// development.
package store

import (
	"context"
	"fmt"
)

// Driver is the interface for artifact storage backends.
type Driver interface {
	// Upload writes data under key with the given content type and returns
	// the public retrieval URL for the object. The URL only depends on the
	// key; uploading again under the same key overwrites the object.
	Upload(ctx context.Context, key string, contentType string, data []byte) (string, error)
}

// DriverType represents the different types of artifact storage drivers
type DriverType string

// DriverTypeLocal is the local filesystem implementation of the artifact store
const DriverTypeLocal DriverType = "Local"

// DriverTypeAWSS3 is the AWS S3 implementation of the artifact store
const DriverTypeAWSS3 DriverType = "AWSS3"

// Configuration contains the configuration for the artifact store
type Configuration struct {
	DriverType         DriverType
	S3Configuration    *S3Configuration
	LocalConfiguration *LocalConfiguration
}

// NewDriver returns the artifact store driver selected by config.
func NewDriver(config Configuration) (Driver, error) {
	switch config.DriverType {
	case DriverTypeAWSS3:
		if config.S3Configuration == nil {
			return nil, fmt.Errorf("missing S3 configuration")
		}
		return NewS3(*config.S3Configuration)
	case DriverTypeLocal:
		if config.LocalConfiguration == nil {
			return nil, fmt.Errorf("missing local configuration")
		}
		return NewLocalFilesystem(*config.LocalConfiguration)
	}
	return nil, fmt.Errorf("unknown driver type '%s'", config.DriverType)
}
