package in

import (
	"context"

	timerdto "pomo/internal/modules/timer/dto"
	timerin "pomo/internal/modules/timer/port/in"
)

type CLIHandler struct {
	usecase timerin.Usecase
}

func NewCLIHandler(usecase timerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Prepare loads settings and sets the task label before the first start.
func (h CLIHandler) Prepare(ctx context.Context, task string) error {
	h.usecase.SetTask(task)
	return h.usecase.Reload(ctx)
}

func (h CLIHandler) Run(ctx context.Context) error {
	return h.usecase.Run(ctx)
}

func (h CLIHandler) Events(buffer int) <-chan timerdto.Event {
	return h.usecase.Subscribe(buffer)
}

func (h CLIHandler) Start(ctx context.Context) error {
	return h.usecase.Start(ctx)
}

func (h CLIHandler) Reset(ctx context.Context) error {
	return h.usecase.Reset(ctx)
}

func (h CLIHandler) Snapshot() timerdto.Snapshot {
	return h.usecase.Snapshot()
}
