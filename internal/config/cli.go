// Package config declares the joyserial command line.
package config

import (
	"github.com/acs-rover/joyserial/internal/cmd"
	"github.com/acs-rover/joyserial/internal/log"
)

// CLI is the root of the Kong command tree.
type CLI struct {
	Config string     `help:"Configuration file (json, yaml or toml)" env:"JOYSERIAL_CONFIG" placeholder:"PATH"`
	Log    log.Config `embed:"" prefix:"log."`

	Run         cmd.Run           `cmd:"" default:"withargs" help:"Forward controller input to the vehicle"`
	Controllers cmd.Controllers   `cmd:"" help:"List connected controllers"`
	Ports       cmd.Ports         `cmd:"" help:"List serial ports"`
	ConfigCmd   cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration helpers"`
}
