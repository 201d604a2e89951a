//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"consultoria-tcp/domain"
	"consultoria-tcp/protocol"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// It names workers in supervision logs without a Name method on the interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// SessionValidator resolves a session token to the caller's identity.
// Absent, unknown and expired tokens all report false.
type SessionValidator interface {
	ValidateSession(token string) (domain.Identity, bool)
}

// CommandHandler serves every request whose type equals CommandType.
// Handlers must be safe for concurrent use by many connections.
type CommandHandler interface {
	CommandType() string
	Handle(ctx context.Context, message protocol.Message, sessions SessionValidator) (protocol.Result, error)
}

// Dispatcher turns one request line into exactly one response.
type Dispatcher interface {
	Dispatch(ctx context.Context, line []byte) protocol.Response
}
