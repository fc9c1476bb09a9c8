// README: PDF analysis orchestrator (template > AI > regex > manual prompt).
package pdfdoc

import (
	"context"
	"fmt"
	"strings"

	"tripdesk/internal/logger"
	"tripdesk/internal/metrics"
	"tripdesk/internal/modules/airline"
)

// AIExtractor is the external structured-extraction service. It is assumed
// fallible; the analyzer always has a deterministic tier below it.
type AIExtractor interface {
	ExtractProposalContent(ctx context.Context, text string) (*Content, error)
}

// Analyzer coordinates the tiered extraction pipeline. Every tier exists
// because the one above it can fail or not apply; the ordering is what keeps
// confidently-wrong structured data from reaching an agent.
type Analyzer struct {
	ai      AIExtractor
	log     logger.Logger
	metrics *metrics.Metrics
}

func NewAnalyzer(ai AIExtractor, log logger.Logger, m *metrics.Metrics) *Analyzer {
	return &Analyzer{ai: ai, log: log, metrics: m}
}

// Analyze runs the pipeline over already-extracted PDF text:
//  1. sanitize control characters
//  2. template extraction for self-generated documents
//  3. AI structured extraction, normalized
//  4. regex fallback
//  5. manual-entry prompt when no tier found a price signal
func (a *Analyzer) Analyze(ctx context.Context, filename, rawText string) (*AnalysisResult, error) {
	text := SanitizeText(rawText)

	if IsGeneratedDocument(filename, text) {
		if content := ExtractFromTemplate(text); content != nil {
			a.countTier("template")
			a.log.Info("pdf analyzed from template", "filename", filename,
				"flights", len(content.Flights), "hotels", len(content.Hotels))
			return &AnalysisResult{Success: true, Content: content, Message: buildSuggestion(content)}, nil
		}
	}

	if a.ai != nil {
		content, err := a.ai.ExtractProposalContent(ctx, text)
		if err == nil && content != nil {
			normalizeAIContent(content)
			if HasPriceSignal(content) {
				a.countTier("ai")
				a.log.Info("pdf analyzed with ai", "filename", filename,
					"flights", len(content.Flights), "hotels", len(content.Hotels))
				return &AnalysisResult{Success: true, Content: content, Message: buildSuggestion(content)}, nil
			}
		}
		if err != nil {
			a.log.Warn("ai pdf extraction failed, falling back to regex", "error", err)
		}
	}

	content := ExtractWithRegex(text)
	if HasPriceSignal(content) {
		a.countTier("regex")
		a.log.Info("pdf analyzed with regex fallback", "filename", filename,
			"flights", len(content.Flights), "hotels", len(content.Hotels))
		return &AnalysisResult{Success: true, Content: content, Message: buildSuggestion(content)}, nil
	}

	// Nothing priced anywhere: ask instead of guessing.
	a.countTier("manual")
	a.log.Info("pdf analysis found no price signal", "filename", filename)
	return &AnalysisResult{Success: true, Message: ManualEntryPrompt}, nil
}

func (a *Analyzer) countTier(tier string) {
	if a.metrics != nil {
		a.metrics.PdfExtractionTier.WithLabelValues(tier).Inc()
	}
}

// normalizeAIContent cleans up the AI extraction in place: airline codes,
// city names from airport codes, derived legs, and the total-price priority
// order (explicit total > max package price > sum of flight prices).
func normalizeAIContent(c *Content) {
	c.ExtractedFromAI = true
	if c.Currency == "" {
		c.Currency = "USD"
	}

	for i := range c.Flights {
		f := &c.Flights[i]
		if f.AirlineCode == "" && f.Airline != "" {
			f.AirlineCode = airline.Code(f.Airline)
		}
		if f.Airline == "" && f.AirlineCode != "" {
			f.Airline = airline.Name(f.AirlineCode)
		}
		if len(f.Legs) == 0 && f.Route != "" {
			if from, to, ok := splitRoute(f.Route); ok {
				f.Legs = []Leg{{From: from, To: to}}
			}
		}
		for li := range f.Legs {
			leg := &f.Legs[li]
			for yi := range leg.Layovers {
				lay := &leg.Layovers[yi]
				if lay.City == "" && lay.Airport != "" {
					lay.City = CityForAirport(lay.Airport)
				}
			}
		}
		if f.Direction == "" {
			if i%2 == 0 {
				f.Direction = "outbound"
			} else {
				f.Direction = "return"
			}
		}
	}

	for i := range c.Hotels {
		h := &c.Hotels[i]
		if h.Location != "" && len(h.Location) == 3 && strings.ToUpper(h.Location) == h.Location {
			h.Location = CityForAirport(h.Location)
		}
	}

	if c.TotalPrice == 0 {
		var maxPackage, flightSum float64
		for _, h := range c.Hotels {
			if h.PackagePrice != nil && *h.PackagePrice > maxPackage {
				maxPackage = *h.PackagePrice
			}
		}
		for _, f := range c.Flights {
			flightSum += f.Price
		}
		if maxPackage > 0 {
			c.TotalPrice = maxPackage
		} else {
			c.TotalPrice = flightSum
		}
	}
}

func splitRoute(route string) (string, string, bool) {
	for _, sep := range []string{" - ", "-", "→", "/"} {
		if parts := strings.SplitN(route, sep, 2); len(parts) == 2 {
			from := strings.TrimSpace(parts[0])
			to := strings.TrimSpace(parts[1])
			if from != "" && to != "" {
				return from, to, true
			}
		}
	}
	return "", "", false
}

// buildSuggestion writes the human-readable summary shown in chat after a
// successful analysis.
func buildSuggestion(c *Content) string {
	var b strings.Builder
	b.WriteString("Analicé el documento y encontré:\n")

	if len(c.Flights) > 0 {
		fmt.Fprintf(&b, "✈️ %d vuelos", len(c.Flights))
		if det := firstAirline(c); det != "" {
			fmt.Fprintf(&b, " (%s)", det)
		}
		b.WriteString("\n")
	}
	if len(c.Hotels) > 0 {
		fmt.Fprintf(&b, "🏨 %d hoteles", len(c.Hotels))
		options := 0
		for _, h := range c.Hotels {
			if h.OptionNumber != nil {
				options++
			}
		}
		if options > 0 {
			fmt.Fprintf(&b, " en %d opciones", options)
		}
		b.WriteString("\n")
	}
	if c.TotalPrice > 0 {
		fmt.Fprintf(&b, "💰 Total: %s %.2f\n", c.Currency, c.TotalPrice)
	}
	b.WriteString("Decime si querés cambiar algún precio (por ejemplo \"opción 1 a 900\") y regenero el PDF.")
	return b.String()
}

func firstAirline(c *Content) string {
	for _, f := range c.Flights {
		if f.Airline != "" {
			return f.Airline
		}
	}
	return ""
}
