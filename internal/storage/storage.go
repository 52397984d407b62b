package storage

import "swapEngine/internal/model"

// EventSink is a sink for fetched swap events.
type EventSink interface {
	PutEventBatch(events []model.SwapEvent) error
}
