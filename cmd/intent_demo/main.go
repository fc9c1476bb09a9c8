// README: CLI demo of the iteration classifier and merge engine, no services needed.
package main

import (
	"encoding/json"
	"fmt"

	"tripdesk/internal/logger"
	"tripdesk/internal/modules/intent"
	"tripdesk/internal/modules/travelctx"
	"tripdesk/internal/types"
)

func main() {
	log := logger.New()
	classifier := intent.NewClassifier(log)

	prior := &types.ContextState{
		ConversationID: "demo",
		TurnNumber:     1,
		SchemaVersion:  types.ContextSchemaVersion,
		LastSearch: &types.LastSearch{
			RequestType: types.RequestCombined,
			FlightsParams: &types.FlightParams{
				Origin: "EZE", Destination: "CUN",
				DepartureDate: "2025-12-01", ReturnDate: "2025-12-08", Adults: 2,
			},
			HotelsParams: &types.HotelParams{
				City: "CUN", CheckinDate: "2025-12-01", CheckoutDate: "2025-12-08", Adults: 2,
			},
		},
	}

	messages := []string{
		"Vuelos a Miami",
		"misma búsqueda pero con hotel Riu",
		"quiero vuelos sin escalas",
		"lo mismo pero con Latam",
		"mejor que sea business",
	}

	for _, msg := range messages {
		it := classifier.Classify(msg, prior)
		fmt.Printf("\nMensaje: %q\n", msg)
		fmt.Printf("  tipo=%s confianza=%.2f patron=%s\n", it.IterationType, it.Confidence, it.MatchedPattern)

		merged := travelctx.Merge(prior, nil, it)
		if merged == nil {
			continue
		}
		b, _ := json.MarshalIndent(merged, "  ", "  ")
		fmt.Printf("  merge: %s\n", b)
	}
}
