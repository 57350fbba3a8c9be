package config

import "os"

func IsDebug() bool {
	return os.Getenv("TASKCHAT_DEBUG") == "1"
}
