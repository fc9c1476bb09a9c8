// README: Chat orchestrator: context load, classify, parse, merge, search, reply.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"tripdesk/internal/ai"
	"tripdesk/internal/logger"
	"tripdesk/internal/metrics"
	"tripdesk/internal/modules/intent"
	"tripdesk/internal/modules/pdfdoc"
	"tripdesk/internal/modules/pricetext"
	"tripdesk/internal/modules/quote"
	"tripdesk/internal/modules/travelctx"
	"tripdesk/internal/suppliers"
	"tripdesk/internal/types"
)

// QuoteStore is the slice of the quote service the planner needs. Kept as an
// interface so tests can run without Postgres or hosted storage.
type QuoteStore interface {
	SaveAnalyzed(ctx context.Context, conversationID, filename string, source quote.Source, content *pdfdoc.Content) (*quote.Quote, error)
	ArchiveUpload(ctx context.Context, quoteID string, pdf []byte) (string, error)
	RecordRendered(ctx context.Context, quoteID, url string) error
	Latest(ctx context.Context, conversationID string) (*quote.Quote, error)
}

// ChatPlanner orchestrates one agency chat turn end to end. Every external
// call it makes has a degraded conversational fallback; a user never sees a
// raw error.
type ChatPlanner struct {
	parser     ai.Provider
	classifier *intent.Classifier
	contexts   *travelctx.Service
	analyzer   *pdfdoc.Analyzer
	quotes     QuoteStore

	flights  suppliers.FlightSearcher
	hotels   suppliers.HotelSearcher
	pdfText  suppliers.TextExtractor
	renderer suppliers.Renderer

	log     logger.Logger
	metrics *metrics.Metrics
}

type ChatPlannerDeps struct {
	Parser     ai.Provider
	Classifier *intent.Classifier
	Contexts   *travelctx.Service
	Analyzer   *pdfdoc.Analyzer
	Quotes     QuoteStore
	Flights    suppliers.FlightSearcher
	Hotels     suppliers.HotelSearcher
	PdfText    suppliers.TextExtractor
	Renderer   suppliers.Renderer
	Log        logger.Logger
	Metrics    *metrics.Metrics
}

func NewChatPlanner(d ChatPlannerDeps) *ChatPlanner {
	return &ChatPlanner{
		parser:     d.Parser,
		classifier: d.Classifier,
		contexts:   d.Contexts,
		analyzer:   d.Analyzer,
		quotes:     d.Quotes,
		flights:    d.Flights,
		hotels:     d.Hotels,
		pdfText:    d.PdfText,
		renderer:   d.Renderer,
		log:        d.Log,
		metrics:    d.Metrics,
	}
}

const (
	degradedSearchReply = "Tuve un problema buscando disponibilidad. Probá de nuevo en un rato, o pasame los datos y lo armo a mano."
	smallTalkReply      = "¡Hola! Decime qué estás buscando: vuelos, hotel o paquete, con destino y fechas, y te armo la cotización."
)

// HandleMessage processes one free-text agency message and returns the
// conversational reply.
func (p *ChatPlanner) HandleMessage(ctx context.Context, conversationID, message string) (string, error) {
	p.countMessage()

	prior, err := p.contexts.Load(ctx, conversationID)
	if err != nil {
		p.countError("context_load")
		p.log.Error("context load failed", "conversationId", conversationID, "error", err)
		prior = nil
	}

	// A message against an analyzed proposal may be a price directive
	// rather than a search. That path never touches the search context.
	if reply, handled := p.tryPriceChange(ctx, conversationID, message); handled {
		return reply, nil
	}

	it := p.classifier.Classify(message, prior)
	p.countIteration(it)

	parsed, err := p.parser.ParseTravelRequest(ctx, message, prior)
	if err != nil {
		p.countError("ai_parse")
		p.log.Error("message parse failed", "conversationId", conversationID, "error", err)
		return degradedSearchReply, nil
	}
	if parsed == nil && !it.IsIteration {
		return smallTalkReply, nil
	}
	if parsed == nil {
		// The classifier saw an iteration the parser did not; merge from
		// the directive alone.
		parsed = &types.TravelRequest{
			RequestType: types.RequestType(it.BaseRequestType),
			Confidence:  it.Confidence,
		}
	}

	merged := travelctx.Merge(prior, parsed, it)
	if merged == nil {
		return smallTalkReply, nil
	}

	flightOffers, hotelOffers, searchErrs := p.runSearches(ctx, merged)

	reply := p.buildSearchReply(merged, flightOffers, hotelOffers, searchErrs)

	if _, err := p.contexts.SaveSearch(ctx, conversationID, merged, it, summarize(flightOffers, hotelOffers)); err != nil {
		p.countError("context_save")
		p.log.Error("context save failed", "conversationId", conversationID, "error", err)
	}
	return reply, nil
}

// HandlePdfUpload runs the analysis pipeline over an uploaded proposal PDF
// and persists the structured result for later price-change turns.
func (p *ChatPlanner) HandlePdfUpload(ctx context.Context, conversationID, filename string, pdf []byte) (*pdfdoc.AnalysisResult, error) {
	if p.pdfText == nil {
		return &pdfdoc.AnalysisResult{
			Success: false,
			Message: "El análisis de PDF no está habilitado en este entorno. Pasame los datos por mensaje.",
		}, nil
	}
	text, err := p.pdfText.ExtractText(ctx, pdf)
	if err != nil {
		p.countError("pdf_text")
		p.log.Error("pdf text extraction failed", "filename", filename, "error", err)
		return &pdfdoc.AnalysisResult{
			Success: false,
			Message: "No pude leer el PDF. Probá subirlo de nuevo, o pasame los datos por mensaje.",
		}, nil
	}

	res, err := p.analyzer.Analyze(ctx, filename, text)
	if err != nil {
		return nil, err
	}

	if res.Content != nil && p.quotes != nil {
		q, err := p.quotes.SaveAnalyzed(ctx, conversationID, filename, sourceOf(res.Content), res.Content)
		if err != nil {
			p.countError("quote_save")
			p.log.Error("quote save failed", "conversationId", conversationID, "error", err)
		} else if _, err := p.quotes.ArchiveUpload(ctx, q.ID, pdf); err != nil {
			p.log.Warn("source pdf archive failed", "quote_id", q.ID, "error", err)
		}
	}
	return res, nil
}

// HandlePriceChange applies a price directive to the conversation's latest
// analyzed proposal and regenerates the document.
func (p *ChatPlanner) HandlePriceChange(ctx context.Context, conversationID, message string) (string, error) {
	reply, handled := p.tryPriceChange(ctx, conversationID, message)
	if !handled {
		return "No encontré una propuesta analizada en esta conversación. Subí el PDF primero y después pedime el cambio de precio.", nil
	}
	return reply, nil
}

// tryPriceChange reports whether the message was a price directive against
// an existing quote, and if so handles it fully.
func (p *ChatPlanner) tryPriceChange(ctx context.Context, conversationID, message string) (string, bool) {
	if p.quotes == nil {
		return "", false
	}
	latest, err := p.quotes.Latest(ctx, conversationID)
	if err != nil || latest == nil || latest.Content == nil {
		return "", false
	}

	directive := pricetext.ExtractPriceChange(message, hotelNames(latest.Content))
	if directive == nil {
		return "", false
	}

	rebuilt, err := pdfdoc.Rebuild(latest.Content, directive)
	if errors.Is(err, pdfdoc.ErrInsufficientOptions) {
		// Abort before generating anything; ask instead.
		return fmt.Sprintf("No puedo aplicar ese cambio: %s. Revisá la propuesta y decime de nuevo.", userFacing(err)), true
	}
	if err != nil {
		p.countError("reprice")
		p.log.Error("price rebuild failed", "conversationId", conversationID, "error", err)
		return "No pude aplicar el cambio de precio a esta propuesta. Pasame los valores finales y la rearmo a mano.", true
	}

	q, err := p.quotes.SaveAnalyzed(ctx, conversationID, latest.Filename, quote.SourceRebuilt, rebuilt)
	if err != nil {
		p.countError("quote_save")
		p.log.Error("rebuilt quote save failed", "conversationId", conversationID, "error", err)
		return "Apliqué el cambio pero no pude guardar la propuesta. Probá de nuevo en un rato.", true
	}

	reply := fmt.Sprintf("Listo, apliqué el cambio. Nuevo total: %s %.2f.", rebuilt.Currency, rebuilt.TotalPrice)
	if p.renderer != nil {
		url, err := p.renderer.RenderProposal(ctx, rebuilt)
		if err != nil {
			p.countError("render")
			p.log.Error("proposal render failed", "quote_id", q.ID, "error", err)
			return reply + " No pude regenerar el PDF ahora; te lo mando apenas el servicio vuelva.", true
		}
		if err := p.quotes.RecordRendered(ctx, q.ID, url); err != nil {
			p.log.Warn("rendered url save failed", "quote_id", q.ID, "error", err)
		}
		reply += " Acá está el PDF actualizado: " + url
	}
	return reply, true
}

type searchErrors struct {
	flights error
	hotels  error
}

// runSearches fans out to the supplier searches the merged request needs.
// Flight and hotel branches run concurrently and fail independently.
func (p *ChatPlanner) runSearches(ctx context.Context, req *types.TravelRequest) ([]suppliers.FareOffer, []suppliers.HotelOffer, searchErrors) {
	var (
		wg           sync.WaitGroup
		flightOffers []suppliers.FareOffer
		hotelOffers  []suppliers.HotelOffer
		errs         searchErrors
	)
	start := time.Now()

	if req.Flights != nil && p.flights != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			flightOffers, errs.flights = p.flights.SearchFlights(ctx, req.Flights)
		}()
	}
	if req.Hotels != nil && p.hotels != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hotelOffers, errs.hotels = p.hotels.SearchHotels(ctx, req.Hotels)
		}()
	}
	wg.Wait()

	if p.metrics != nil {
		p.metrics.SearchDuration.Observe(time.Since(start).Seconds())
	}
	if errs.flights != nil {
		p.countError("flight_search")
		p.log.Error("flight search failed", "error", errs.flights)
	}
	if errs.hotels != nil {
		p.countError("hotel_search")
		p.log.Error("hotel search failed", "error", errs.hotels)
	}
	return flightOffers, hotelOffers, errs
}

// buildSearchReply renders the conversational result of a search turn,
// degrading per branch when a supplier failed.
func (p *ChatPlanner) buildSearchReply(req *types.TravelRequest, flightOffers []suppliers.FareOffer, hotelOffers []suppliers.HotelOffer, errs searchErrors) string {
	var b strings.Builder

	if req.Flights != nil {
		switch {
		case errs.flights != nil:
			b.WriteString("✈️ No pude consultar vuelos en este momento, pero guardé tu búsqueda.\n")
		case len(flightOffers) == 0:
			b.WriteString(fmt.Sprintf("✈️ No encontré vuelos %s - %s para esas fechas.\n", req.Flights.Origin, req.Flights.Destination))
		default:
			b.WriteString(fmt.Sprintf("✈️ Encontré %d opciones de vuelo %s - %s", len(flightOffers), req.Flights.Origin, req.Flights.Destination))
			best := flightOffers[0]
			for _, o := range flightOffers[1:] {
				if o.Price < best.Price {
					best = o
				}
			}
			b.WriteString(fmt.Sprintf(", desde %s %.2f (%s).\n", best.Currency, best.Price, best.ValidatingAirline))
		}
	}
	if req.Hotels != nil {
		switch {
		case errs.hotels != nil:
			b.WriteString("🏨 La búsqueda de hoteles falló; puedo reintentarla cuando quieras.\n")
		case len(hotelOffers) == 0:
			b.WriteString(fmt.Sprintf("🏨 Sin disponibilidad de hoteles en %s para esas fechas.\n", req.Hotels.City))
		default:
			b.WriteString(fmt.Sprintf("🏨 %d hoteles disponibles en %s.\n", len(hotelOffers), req.Hotels.City))
		}
	}
	if b.Len() == 0 {
		return smallTalkReply
	}
	b.WriteString("¿Querés ajustar algo? Podés pedirme cambios sobre esta misma búsqueda.")
	return b.String()
}

func summarize(flightOffers []suppliers.FareOffer, hotelOffers []suppliers.HotelOffer) string {
	return fmt.Sprintf("%d fares, %d hotels", len(flightOffers), len(hotelOffers))
}

func hotelNames(c *pdfdoc.Content) []string {
	names := make([]string, 0, len(c.Hotels))
	for _, h := range c.Hotels {
		names = append(names, h.Name)
	}
	return names
}

func sourceOf(c *pdfdoc.Content) quote.Source {
	switch {
	case c.ExtractedFromTemplate:
		return quote.SourceTemplate
	case c.ExtractedFromAI:
		return quote.SourceAI
	default:
		return quote.SourceRegex
	}
}

// userFacing strips the package prefix from a sentinel-wrapped error so the
// descriptive Spanish detail can go straight into chat.
func userFacing(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}

func (p *ChatPlanner) countMessage() {
	if p.metrics != nil {
		p.metrics.MessagesProcessed.Inc()
	}
}

func (p *ChatPlanner) countIteration(it *intent.IterationContext) {
	if p.metrics != nil && it != nil {
		p.metrics.IterationsDetected.WithLabelValues(string(it.IterationType)).Inc()
	}
}

func (p *ChatPlanner) countError(operation string) {
	if p.metrics != nil {
		p.metrics.ErrorsCount.WithLabelValues(operation).Inc()
	}
}
