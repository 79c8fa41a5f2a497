package report

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/gocountry/internal/country/entity"
)

// Reporter renders snapshot events into the sink. It is the event handler
// for the report consumer and the image loader for the query side.
type Reporter struct {
	renderer *Renderer
	sink     Sink
}

func NewReporter(renderer *Renderer, sink Sink) *Reporter {
	if renderer == nil {
		renderer = NewRenderer()
	}

	return &Reporter{renderer: renderer, sink: sink}
}

func (r *Reporter) Handle(ctx context.Context, event entity.SnapshotEvent) error {
	data, err := r.renderer.Render(event.Countries, event.GeneratedAt)
	if err != nil {
		return err
	}

	if err := r.sink.Save(ctx, data); err != nil {
		return err
	}

	slog.InfoContext(ctx, "summary image stored", "event_id", event.EventID, "bytes", len(data))
	return nil
}

func (r *Reporter) Load(ctx context.Context) ([]byte, error) {
	return r.sink.Load(ctx)
}
