package order

import (
	"net/http"

	restate "github.com/restatedev/sdk-go"
)

// ServiceName is the Restate service exposing the processor.
const ServiceName = "simulator.sv1.OrderSimulator"

// Service adapts a Processor to a Restate service handler so create-order
// calls can be made durably through the Restate ingress.
type Service struct {
	proc *Processor
}

func NewService(p *Processor) *Service {
	return &Service{proc: p}
}

// CreateOrder validates outside the journal and synthesizes inside restate.Run,
// so a retried invocation replays the same identifiers. Rejected intents are
// terminal.
func (s *Service) CreateOrder(ctx restate.Context, in Intent) (Response, error) {
	store, product, err := s.proc.Validate(ctx, in)
	if err != nil {
		switch HTTPStatus(err) {
		case http.StatusBadRequest:
			return Response{}, restate.TerminalError(err, 400)
		case http.StatusNotFound:
			return Response{}, restate.TerminalError(err, 404)
		default:
			return Response{}, err
		}
	}

	return restate.Run(ctx, func(restate.RunContext) (Response, error) {
		return s.proc.Synthesize(in, store, product), nil
	})
}
