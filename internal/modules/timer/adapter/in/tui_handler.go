package in

import (
	"context"

	timerdto "pomo/internal/modules/timer/dto"
	timerin "pomo/internal/modules/timer/port/in"
)

type TUIHandler struct {
	usecase timerin.Usecase
}

func NewTUIHandler(usecase timerin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Run(ctx context.Context) error {
	return h.usecase.Run(ctx)
}

func (h TUIHandler) Subscribe(buffer int) <-chan timerdto.Event {
	return h.usecase.Subscribe(buffer)
}

func (h TUIHandler) Start(ctx context.Context) error {
	return h.usecase.Start(ctx)
}

func (h TUIHandler) Toggle(ctx context.Context) error {
	return h.usecase.PauseOrResume(ctx)
}

func (h TUIHandler) Reset(ctx context.Context) error {
	return h.usecase.Reset(ctx)
}

func (h TUIHandler) SetTask(name string) {
	h.usecase.SetTask(name)
}

func (h TUIHandler) Reload(ctx context.Context) error {
	return h.usecase.Reload(ctx)
}

func (h TUIHandler) Snapshot() timerdto.Snapshot {
	return h.usecase.Snapshot()
}
