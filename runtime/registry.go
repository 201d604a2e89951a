package runtime

import (
	"consultoria-tcp/contract"
	"fmt"
	"log/slog"
	"sort"
)

// Registry maps a command type to its handler. It is filled once at startup
// and only read afterwards, so lookups need no locking.
type Registry struct {
	handlers map[string]contract.CommandHandler
}

// NewRegistry registers handlers in order. When two handlers claim the same
// command type the last one wins and a warning is logged.
func NewRegistry(log *slog.Logger, handlers ...contract.CommandHandler) *Registry {
	r := &Registry{handlers: make(map[string]contract.CommandHandler, len(handlers))}
	for _, handler := range handlers {
		commandType := handler.CommandType()
		if previous, ok := r.handlers[commandType]; ok {
			log.Warn("Command handler replaced",
				"type", commandType,
				"previous", handlerName(previous),
				"handler", handlerName(handler))
		}
		r.handlers[commandType] = handler
		log.Info("Command handler registered", "type", commandType, "handler", handlerName(handler))
	}
	return r
}

func (r *Registry) Resolve(commandType string) (contract.CommandHandler, bool) {
	handler, ok := r.handlers[commandType]
	return handler, ok
}

// CommandTypes returns the registered command types, sorted.
func (r *Registry) CommandTypes() []string {
	types := make([]string, 0, len(r.handlers))
	for commandType := range r.handlers {
		types = append(types, commandType)
	}
	sort.Strings(types)
	return types
}

func handlerName(handler contract.CommandHandler) string {
	return fmt.Sprintf("%T", handler)
}
