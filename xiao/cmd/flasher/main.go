// Command flasher runs the pattern poll loop directly on the XIAO's pins.
package main

import (
	"libdb.so/flasher/board"
	"libdb.so/flasher/pattern"
	"libdb.so/flasher/poller"
	"libdb.so/flasher/xiao"
)

func main() {
	b := xiao.NewBoard()
	b.Configure(board.DefaultSetup)

	player := pattern.NewPlayer(b, xiao.Clock{})
	poller.New(b, player).Run()
}
