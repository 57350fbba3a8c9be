package config

import (
	"os"
	"path/filepath"
)

func GetRuntimePath() string {
	path := os.Getenv("TASKCHAT_RUNTIME_PATH")
	if path == "" {
		path = ".taskchat"
	}

	if !filepath.IsAbs(path) {
		wd, _ := os.Getwd()
		path = filepath.Join(wd, path)
	}
	return path
}
