package config

import (
	"reflect"
	"sync"

	pluginapi "github.com/mattermost/mattermost-plugin-api"
	"github.com/mattermost/mattermost-server/v6/model"
	"github.com/pkg/errors"
)

// Service is the config/service interface.
type Service interface {
	// GetConfiguration retrieves the active configuration under lock, making it safe to use
	// concurrently. The active configuration may change underneath the client of this method, but
	// the struct returned by this API call is considered immutable.
	GetConfiguration() *Configuration

	// UpdateConfiguration updates the config. Any parts of the config that are persisted in the plugin's
	// section in the server's config will be saved to the server.
	UpdateConfiguration(f func(*Configuration)) error

	// GetManifest gets the plugin manifest.
	GetManifest() *model.Manifest
}

// ServiceImpl holds access to the plugin's Configuration.
type ServiceImpl struct {
	api *pluginapi.Client

	// configurationLock synchronizes access to the configuration.
	configurationLock sync.RWMutex

	// configuration is the active plugin configuration. Consult getConfiguration and
	// setConfiguration for usage.
	configuration *Configuration

	manifest *model.Manifest
}

// NewConfigService Creates a new ServiceImpl struct.
func NewConfigService(api *pluginapi.Client, manifest *model.Manifest) *ServiceImpl {
	c := &ServiceImpl{
		api:      api,
		manifest: manifest,
	}
	c.configuration = new(Configuration)

	if err := api.Configuration.LoadPluginConfiguration(c.configuration); err != nil {
		api.Log.Error("Purge: failed to load plugin configuration", "error", err.Error())
	}

	return c
}

// GetConfiguration retrieves the active configuration under lock.
func (c *ServiceImpl) GetConfiguration() *Configuration {
	c.configurationLock.RLock()
	defer c.configurationLock.RUnlock()

	if c.configuration == nil {
		return &Configuration{}
	}

	return c.configuration
}

// UpdateConfiguration updates the config and saves it to the server when it changed.
func (c *ServiceImpl) UpdateConfiguration(f func(*Configuration)) error {
	c.configurationLock.Lock()

	if c.configuration == nil {
		c.configuration = &Configuration{}
	}

	oldStorableConfig := c.configuration.serialize()
	updated := c.configuration.Clone()
	f(updated)
	c.configuration = updated
	newStorableConfig := updated.serialize()

	c.configurationLock.Unlock()

	// Don't hit the db if the config hasn't changed.
	if reflect.DeepEqual(oldStorableConfig, newStorableConfig) {
		return nil
	}

	return c.api.Configuration.SavePluginConfig(newStorableConfig)
}

// setConfiguration replaces the active configuration under lock.
//
// Do not call setConfiguration while holding the configurationLock, as sync.Mutex is not
// reentrant. In particular, avoid using the plugin API entirely, as this may in turn trigger a
// hook back into the plugin. If that hook attempts to acquire this lock, a deadlock may occur.
func (c *ServiceImpl) setConfiguration(configuration *Configuration) {
	c.configurationLock.Lock()
	defer c.configurationLock.Unlock()

	if configuration != nil && c.configuration == configuration {
		// Ignore assignment if the configuration struct is empty. Go will optimize the
		// allocation for same to point at the same memory address, breaking the check
		// above.
		if reflect.ValueOf(*configuration).NumField() == 0 {
			return
		}

		panic("setConfiguration called with the existing configuration")
	}

	c.configuration = configuration
}

// OnConfigurationChange is invoked when configuration changes may have been made.
func (c *ServiceImpl) OnConfigurationChange() error {
	var configuration = new(Configuration)

	// Load the public configuration fields from the Mattermost server configuration.
	if err := c.api.Configuration.LoadPluginConfiguration(configuration); err != nil {
		return errors.Wrapf(err, "failed to load plugin configuration")
	}

	c.setConfiguration(configuration)

	return nil
}

// GetManifest gets the plugin manifest.
func (c *ServiceImpl) GetManifest() *model.Manifest {
	return c.manifest
}
