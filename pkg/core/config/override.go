package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// Keys looked up in viper by Override. The CLI binds its flags to these
// keys and viper maps them to FDL_* environment variables.
const (
	KeyLogLevel   = "log_level"
	KeyLogFormat  = "log_format"
	KeyDataDir    = "data_dir"
	KeyServerHost = "host"
	KeyServerPort = "port"
	KeyStorePath  = "store"
	KeyHideProps  = "hide_props"
)

// Override applies values set in v (flags or environment) on top of the
// file configuration and validates the result.
func (c *Config) Override(v *viper.Viper) error {
	if v == nil {
		return nil
	}
	if v.IsSet(KeyLogLevel) {
		c.General.LogLevel = v.GetString(KeyLogLevel)
	}
	if v.IsSet(KeyLogFormat) {
		c.General.LogFormat = v.GetString(KeyLogFormat)
	}
	if v.IsSet(KeyDataDir) {
		derived := c.Store.Path == filepath.Join(c.General.DataDir, "snapshots.db")
		c.General.DataDir = v.GetString(KeyDataDir)
		if derived {
			c.Store.Path = filepath.Join(c.General.DataDir, "snapshots.db")
		}
	}
	if v.IsSet(KeyServerHost) {
		c.Server.Host = v.GetString(KeyServerHost)
	}
	if v.IsSet(KeyServerPort) {
		c.Server.Port = v.GetInt(KeyServerPort)
	}
	if v.IsSet(KeyStorePath) {
		c.Store.Path = v.GetString(KeyStorePath)
	}
	if v.IsSet(KeyHideProps) {
		c.Viewer.HideProps = v.GetBool(KeyHideProps)
	}
	c.expandEnvVars()
	return c.Validate()
}
