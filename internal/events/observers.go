package events

import "go.uber.org/zap"

// LoggingObserver writes every change event to a structured logger.
type LoggingObserver struct {
	name   string
	logger *zap.Logger
}

// NewLoggingObserver creates an observer that logs change events at debug level.
func NewLoggingObserver(logger *zap.Logger) *LoggingObserver {
	return &LoggingObserver{
		name:   "LoggingObserver",
		logger: logger,
	}
}

// OnEvent logs the event.
func (o *LoggingObserver) OnEvent(event Event) error {
	fields := []zap.Field{zap.String("event", event.Type)}
	if change, ok := GetTypedData[TableChanged](event); ok {
		fields = append(fields,
			zap.String("table", change.Table),
			zap.String("operation", change.Operation),
			zap.Int64("id", change.ID))
	}
	o.logger.Debug("table changed", fields...)
	return nil
}

// GetName returns the observer's name.
func (o *LoggingObserver) GetName() string {
	return o.name
}

// ShouldHandle returns true for all events.
func (o *LoggingObserver) ShouldHandle(string) bool {
	return true
}

// tableObserver signals a subscription when one of its tables changes.
// The signal channel holds one pending notification; bursts coalesce.
type tableObserver struct {
	name   string
	tables map[string]struct{}
	signal chan struct{}
}

func newTableObserver(name string, tables []string) *tableObserver {
	set := make(map[string]struct{}, len(tables))
	for _, t := range tables {
		set[t] = struct{}{}
	}
	return &tableObserver{
		name:   name,
		tables: set,
		signal: make(chan struct{}, 1),
	}
}

func (o *tableObserver) OnEvent(Event) error {
	select {
	case o.signal <- struct{}{}:
	default:
	}
	return nil
}

func (o *tableObserver) GetName() string {
	return o.name
}

func (o *tableObserver) ShouldHandle(eventType string) bool {
	table, ok := TableOf(eventType)
	if !ok {
		return false
	}
	_, watched := o.tables[table]
	return watched
}

var (
	_ Observer = (*LoggingObserver)(nil)
	_ Observer = (*tableObserver)(nil)
)
