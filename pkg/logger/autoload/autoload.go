// Package autoload configures the global logger from the environment as a
// side effect of being imported:
//
//	import _ "github.com/jakkaphatm/chatcart/pkg/logger/autoload"
package autoload

import (
	configx "github.com/jakkaphatm/chatcart/pkg/config"
	logx "github.com/jakkaphatm/chatcart/pkg/logger"
)

func init() {
	conf, err := configx.New[logx.Config]("LOG")
	if err != nil {
		logx.Init()
		return
	}
	logx.Init(*conf)
}
