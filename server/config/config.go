package config

// Configuration captures the plugin's external configuration as exposed in the Mattermost server
// configuration, as well as values computed from the configuration. Any public fields will be
// deserialized from the Mattermost server configuration in OnConfigurationChange.
//
// As plugins are inherently concurrent (hooks being called asynchronously), and the plugin
// configuration can change at any time, access to the configuration must be synchronized. The
// strategy used in this plugin is to guard a pointer to the configuration, and clone the entire
// struct whenever it changes. You may replace this with whatever strategy you choose.
type Configuration struct {
	// BotUserID used to post messages.
	BotUserID string

	// PurgeRole is the role name, besides system admins, allowed to run /purge.
	PurgeRole string

	// Tuning is a YAML document overriding retention, backfill and purge throttling.
	Tuning string
}

// Clone shallow copies the configuration. Your implementation may require a deep copy if
// your configuration has reference types.
func (c *Configuration) Clone() *Configuration {
	var clone = *c
	return &clone
}

func (c *Configuration) serialize() map[string]interface{} {
	return map[string]interface{}{
		"BotUserID": c.BotUserID,
		"PurgeRole": c.PurgeRole,
		"Tuning":    c.Tuning,
	}
}
