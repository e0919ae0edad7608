//go:build !linux

package flasher

import (
	"log/slog"

	"github.com/pkg/errors"
	"libdb.so/flasher/board"
)

type gpiocdevBoard struct {
	board.Board
}

func openGPIOCDevBoard(GPIOCDevConfig, *slog.Logger) (*gpiocdevBoard, error) {
	return nil, errors.New("the gpiocdev backend is only available on linux")
}

func (b *gpiocdevBoard) Close() error { return nil }
