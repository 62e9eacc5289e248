package main

import (
	"strings"
	"sync"

	"github.com/phrazzld/posterdrop/internal/config"
)

type commandContext struct {
	configFlag *string
	services   serviceFactory

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, services serviceFactory) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		services:   services,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = config.LoadFile(path)
	})
	return c.config, c.configErr
}
