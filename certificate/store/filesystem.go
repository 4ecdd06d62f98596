package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/relabs-tech/certify/core/logger"
)

// LocalConfiguration contains the configuration for the local filesystem driver
type LocalConfiguration struct {
	// BasePath is the folder artifacts are written to.
	BasePath string
	// PublicURL is the base under which the folder is served.
	PublicURL string
}

// LocalFilesystem stores artifacts in a local folder. This is the offline
// development backend; it is not meant for production.
type LocalFilesystem struct {
	baseFolder string
	publicURL  string
}

// NewLocalFilesystem returns a new LocalFilesystem, creating the base folder
// if it does not exist yet.
func NewLocalFilesystem(localConfig LocalConfiguration) (*LocalFilesystem, error) {
	if localConfig.BasePath == "" {
		return nil, fmt.Errorf("BasePath must not be empty")
	}
	if err := os.MkdirAll(localConfig.BasePath, 0755); err != nil {
		return nil, err
	}
	logger.Default().Debugln("artifact store local filesystem enabled: ", localConfig.BasePath)
	return &LocalFilesystem{
		baseFolder: localConfig.BasePath,
		publicURL:  strings.TrimSuffix(localConfig.PublicURL, "/"),
	}, nil
}

// Upload writes data under key inside the base folder and returns the URL the
// file will be served under.
func (f *LocalFilesystem) Upload(ctx context.Context, key string, contentType string, data []byte) (string, error) {
	if strings.Contains(key, "..") {
		return "", fmt.Errorf(".. not authorized in keys")
	}
	path := filepath.Join(f.baseFolder, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	logger.FromContext(ctx).Infoln("wrote ", path)
	return f.publicURL + "/" + key, nil
}
