// README: Conversation context lifecycle (load, advance, audit trail).
package travelctx

import (
	"context"
	"fmt"
	"time"

	"tripdesk/internal/logger"
	"tripdesk/internal/modules/intent"
	"tripdesk/internal/types"
)

type Service struct {
	store Store
	log   logger.Logger
}

func NewService(store Store, log logger.Logger) *Service {
	return &Service{store: store, log: log}
}

// Load fetches the context for a conversation, or nil when none exists.
func (s *Service) Load(ctx context.Context, conversationID string) (*types.ContextState, error) {
	return s.store.Get(ctx, conversationID)
}

// SaveSearch records a successfully resolved search as the conversation's
// new lastSearch, advances the turn counter and appends the iteration's
// constraints to the audit trail. The requestType decides which param block
// is stored: a hotels-only search never persists flight params.
func (s *Service) SaveSearch(ctx context.Context, conversationID string, req *types.TravelRequest, it *intent.IterationContext, summary string) (*types.ContextState, error) {
	state, err := s.store.Get(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = types.NewContextState(conversationID)
	}

	now := time.Now()
	last := &types.LastSearch{
		RequestType:    req.RequestType,
		Timestamp:      now,
		ResultsSummary: summary,
	}
	switch req.RequestType {
	case types.RequestFlights:
		last.FlightsParams = types.CloneFlightParams(req.Flights)
	case types.RequestHotels:
		last.HotelsParams = types.CloneHotelParams(req.Hotels)
	default:
		last.FlightsParams = types.CloneFlightParams(req.Flights)
		last.HotelsParams = types.CloneHotelParams(req.Hotels)
	}

	state.TurnNumber++
	state.LastSearch = last
	state.SchemaVersion = types.ContextSchemaVersion
	state.ConstraintsHistory = append(state.ConstraintsHistory, constraintEvents(state.TurnNumber, it, now)...)

	if err := s.store.Save(ctx, state); err != nil {
		return nil, err
	}
	s.log.Info("context saved",
		"conversationId", conversationID,
		"turn", state.TurnNumber,
		"requestType", string(req.RequestType),
	)
	return state, nil
}

// constraintEvents translates the iteration's directive into audit entries.
func constraintEvents(turn int, it *intent.IterationContext, at time.Time) []types.ConstraintEvent {
	if it == nil || !it.IsIteration {
		return nil
	}
	event := func(component, constraint, value string) types.ConstraintEvent {
		return types.ConstraintEvent{Turn: turn, Component: component, Constraint: constraint, Value: value, Timestamp: at}
	}

	var out []types.ConstraintEvent
	d := it.FlightModification
	if d != nil {
		if d.Stops != nil {
			out = append(out, event("flights", "stops", *d.Stops))
		}
		if d.Luggage != nil {
			out = append(out, event("flights", "luggage", *d.Luggage))
		}
		if d.Airline != nil {
			out = append(out, event("flights", "preferredAirline", *d.Airline))
		}
		if d.MaxLayoverHours != nil {
			out = append(out, event("flights", "maxLayoverHours", fmt.Sprintf("%d", *d.MaxLayoverHours)))
		}
		if d.AdultsToAdd > 0 {
			out = append(out, event("flights", "adults", fmt.Sprintf("%d", d.AdultsToAdd)))
		}
		if d.CabinClass != nil {
			out = append(out, event("flights", "cabinClass", *d.CabinClass))
		}
		if d.DepartureTimePreference != nil {
			out = append(out, event("flights", "departureTimePreference", *d.DepartureTimePreference))
		}
		if d.ArrivalTimePreference != nil {
			out = append(out, event("flights", "arrivalTimePreference", *d.ArrivalTimePreference))
		}
	}
	if len(out) == 0 {
		out = append(out, event(string(it.ModifiedComponent), "iteration", string(it.IterationType)))
	}
	return out
}
