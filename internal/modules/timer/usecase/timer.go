package usecase

import (
	"context"

	"pomo/internal/modules/timer/dto"
	timerin "pomo/internal/modules/timer/port/in"
	"pomo/internal/modules/timer/service"
)

type Interactor struct {
	controller *service.Controller
}

func NewInteractor(controller *service.Controller) timerin.Usecase {
	return &Interactor{controller: controller}
}

func (i *Interactor) Run(ctx context.Context) error {
	return i.controller.Run(ctx)
}

func (i *Interactor) Subscribe(buffer int) <-chan dto.Event {
	return i.controller.Subscribe(buffer)
}

func (i *Interactor) Start(ctx context.Context) error {
	return i.controller.Start(ctx)
}

func (i *Interactor) PauseOrResume(ctx context.Context) error {
	return i.controller.PauseOrResume(ctx)
}

func (i *Interactor) Reset(ctx context.Context) error {
	return i.controller.Reset(ctx)
}

func (i *Interactor) SetTask(name string) {
	i.controller.SetTask(name)
}

func (i *Interactor) Reload(ctx context.Context) error {
	return i.controller.LoadSettings(ctx)
}

func (i *Interactor) Snapshot() dto.Snapshot {
	return i.controller.Snapshot()
}
