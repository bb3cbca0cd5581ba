package in

import (
	"context"

	"pomo/internal/modules/timer/dto"
)

type Usecase interface {
	Run(ctx context.Context) error
	Subscribe(buffer int) <-chan dto.Event
	Start(ctx context.Context) error
	PauseOrResume(ctx context.Context) error
	Reset(ctx context.Context) error
	SetTask(name string)
	Reload(ctx context.Context) error
	Snapshot() dto.Snapshot
}
