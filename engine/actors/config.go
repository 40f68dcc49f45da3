package actors

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"nostrcard/engine/library"
	"nostrcard/messaging/eventconductor"
	"nostrcard/messaging/relays"
)

var DefaultRelays = []string{"purplepag.es", "relay.nos.social", "relay.primal.net", "relay.damus.io"}

// InitConfig sets up our Viper config object
func InitConfig(config *viper.Viper) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		library.LogCLI(err.Error(), 1)
		homeDir = os.TempDir()
	}
	config.SetDefault("rootDir", filepath.Join(homeDir, "nostrcard")+string(filepath.Separator))
	config.SetConfigType("yaml")
	config.SetConfigFile(config.GetString("rootDir") + "config.yaml")
	err = config.ReadInConfig()
	if err != nil {
		library.LogCLI(err.Error(), 4)
	}
	config.SetDefault("logLevel", 4)
	config.SetDefault("relays", DefaultRelays)
	// passed to relays as the filter limit, 0 for none
	config.SetDefault("subscriptionLimit", 1)
	// when true an event older than the current view is ignored instead of replacing it
	config.SetDefault("monotonicAdmission", false)
	library.SetLogLevel(config.GetInt("logLevel"))
	// Create our working directory and config file if not exist
	initRootDir(config)
	touch(config.GetString("rootDir") + "config.yaml")
	err = config.WriteConfig()
	if err != nil {
		library.LogCLI(err.Error(), 1)
	}
}

func initRootDir(conf *viper.Viper) {
	_, err := os.Stat(conf.GetString("rootDir"))
	if os.IsNotExist(err) {
		err = os.MkdirAll(conf.GetString("rootDir"), 0755)
		if err != nil {
			library.LogCLI(err, 1)
		}
	}
}

func touch(name string) {
	f, err := os.OpenFile(name, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		library.LogCLI(err, 1)
		return
	}
	f.Close()
}

// AggregatorOptions reads the aggregator settings from conf.
func AggregatorOptions(conf *viper.Viper) eventconductor.Options {
	return eventconductor.Options{
		Relays:             relays.Normalize(conf.GetStringSlice("relays")),
		Limit:              conf.GetInt("subscriptionLimit"),
		MonotonicAdmission: conf.GetBool("monotonicAdmission"),
	}
}

var conf *viper.Viper

func MakeOrGetConfig() *viper.Viper {
	return conf
}

func SetConfig(config *viper.Viper) {
	conf = config
}
