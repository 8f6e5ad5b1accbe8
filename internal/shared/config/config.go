package config

import (
	"os"
	"strconv"

	"gopkg.in/ini.v1"

	"reqloop/internal/shared/types"
)

// Load reads the ini behaviour configuration into cfg. A missing file is not
// an error: the defaults already present in cfg stay in effect.
func Load(cfg *types.Config, fileName string) error {
	iniFile, err := ini.Load(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := iniFile.MapTo(cfg); err != nil {
		return err
	}
	overrideFromEnvInt(&cfg.CommonConf.Workers, "REQLOOP_WORKERS")
	overrideFromEnvInt(&cfg.CommonConf.TimeoutSeconds, "REQLOOP_TIMEOUT")
	return nil
}

func overrideFromEnvInt(target *int, envName string) {
	envValue := os.Getenv(envName)
	if envValue != "" {
		if intValue, err := strconv.Atoi(envValue); err == nil {
			*target = intValue
		}
	}
}
