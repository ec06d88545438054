package messaging

import (
	"context"
	"errors"

	"github.com/feral-file/ff-confirmator/internal/domain"
)

type fanout struct {
	publishers []Publisher
}

// NewFanout creates a publisher that delivers every notification to all given publishers.
// Every publisher is attempted; the call fails if any of them fails.
func NewFanout(publishers ...Publisher) Publisher {
	return &fanout{publishers: publishers}
}

func (f *fanout) Publish(ctx context.Context, notification *domain.Notification) error {
	var errs []error
	for _, p := range f.publishers {
		if err := p.Publish(ctx, notification); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *fanout) Close() {
	for _, p := range f.publishers {
		p.Close()
	}
}
