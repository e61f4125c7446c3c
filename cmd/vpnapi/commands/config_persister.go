package commands

import (
	"context"
	"sync"

	"github.com/fivetwenty-io/vpnapi/pkg/vpnapi"
)

// ConfigPersister implements the vpnapi.TokenPersister interface by writing
// acquired tokens to the CLI config file.
type ConfigPersister struct {
	mutex sync.Mutex
	path  string
}

// NewConfigPersister creates a new config persister for the file at path.
func NewConfigPersister(path string) *ConfigPersister {
	return &ConfigPersister{path: path}
}

// PersistAuthToken stores token for accountID, keeping all other settings.
func (p *ConfigPersister) PersistAuthToken(_ context.Context, accountID string, token vpnapi.AuthToken) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	config, err := readConfigFile(p.path)
	if err != nil {
		return err
	}

	config.AuthToken = token.Reveal()
	config.AuthTokenAccount = accountID

	return saveConfigStruct(p.path, config)
}

// ClearAuthToken removes any stored token.
func (p *ConfigPersister) ClearAuthToken() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	config, err := readConfigFile(p.path)
	if err != nil {
		return err
	}

	config.AuthToken = ""
	config.AuthTokenAccount = ""

	return saveConfigStruct(p.path, config)
}
