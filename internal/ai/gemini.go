// README: Gemini-backed implementation of the Provider and PDF extractor contracts.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"tripdesk/internal/modules/pdfdoc"
	"tripdesk/internal/types"
)

// GeminiProvider implements Provider and pdfdoc.AIExtractor using Google's
// Gemini models.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiProvider initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Gemini 2.0 Flash for low latency and cost efficiency.
	model := client.GenerativeModel("gemini-2.0-flash")

	// Force JSON responses for structured parsing.
	model.ResponseMIMEType = "application/json"

	// Extraction wants determinism over creativity.
	model.SetTemperature(0.2)

	return &GeminiProvider{client: client, model: model}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

// ParseTravelRequest extracts a structured search request from an agent
// message. Returns (nil, nil) when the message is not a travel search.
func (p *GeminiProvider) ParseTravelRequest(ctx context.Context, message string, prior *types.ContextState) (*types.TravelRequest, error) {
	prompt := fmt.Sprintf("%s\n\nMensaje del agente: %s", buildParsePrompt(prior), message)

	raw, err := p.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var resp parseResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, raw)
	}
	return resp.toRequest(), nil
}

// ExtractProposalContent reads flights, hotels and prices out of extracted
// PDF text. Implements pdfdoc.AIExtractor.
func (p *GeminiProvider) ExtractProposalContent(ctx context.Context, text string) (*pdfdoc.Content, error) {
	prompt := fmt.Sprintf("%s\n\nTexto del documento:\n%s", extractPrompt, text)

	raw, err := p.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var content pdfdoc.Content
	if err := json.Unmarshal([]byte(raw), &content); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, raw)
	}
	return &content, nil
}

func (p *GeminiProvider) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates from Gemini")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out.WriteString(string(txt))
		}
	}

	// JSON mode should already be clean, but models occasionally wrap the
	// payload in a markdown fence anyway.
	return cleanJSONString(out.String()), nil
}

// buildParsePrompt constructs the instructions for message parsing, with the
// prior context injected so references to the previous search resolve.
func buildParsePrompt(prior *types.ContextState) string {
	contextInfo := "NINGUNO"
	if prior != nil && prior.LastSearch != nil {
		if b, err := json.Marshal(prior.LastSearch); err == nil {
			contextInfo = string(b)
		}
	}

	return fmt.Sprintf(`Rol: Sos el parser de búsquedas de una agencia de viajes argentina. Los agentes
te escriben en español rioplatense, informal y con abreviaturas.

Contexto:
- Última búsqueda de la conversación: %s

REGLAS:

1. TIPO DE PEDIDO:
   - "vuelos", "aéreos", "pasajes" -> "flights".
   - "hotel", "alojamiento", "estadía" -> "hotels".
   - Ambos mencionados, o "paquete" -> "combined".

2. FECHAS:
   - Normalizá SIEMPRE a YYYY-MM-DD.
   - "del 10 al 20 de enero" -> departureDate/checkinDate 10, returnDate/checkoutDate 20.
   - Sin año explícito: usá la próxima ocurrencia futura de esa fecha.

3. CIUDADES Y AEROPUERTOS:
   - Usá códigos IATA para origin/destination cuando la ciudad es inequívoca
     (Buenos Aires -> EZE, Cancún -> CUN, Madrid -> MAD, Miami -> MIA).
   - Para hoteles usá el nombre de la ciudad, no el código.
   - Si el mensaje no dice origen, asumí EZE.

4. PASAJEROS:
   - "2 adultos y un menor" -> adults: 2, children: 1.
   - Sin mención: adults 1, children 0.

5. PREFERENCIAS (solo si se mencionan, si no dejá el campo afuera):
   - "directo"/"sin escalas" -> stops: "direct". "una escala" -> stops: "1".
   - "con valija"/"equipaje despachado" -> luggage: "checked". "solo mochila" -> luggage: "carry_on".
   - "business"/"ejecutiva" -> cabinClass: "business".
   - "all inclusive"/"todo incluido" -> mealPlan: "all_inclusive". "desayuno" -> mealPlan: "breakfast".
   - Cadena hotelera mencionada (Riu, Iberostar, Barceló...) -> agregala a hotelChains.

6. REFERENCIAS AL CONTEXTO:
   - "lo mismo pero...", "la misma búsqueda", "y ahora agregale..." refieren a la
     última búsqueda. Completá los campos que el mensaje SÍ dice y dejá afuera
     los que no menciona; el sistema hace el merge.

7. NO ES BÚSQUEDA:
   - Saludos, agradecimientos, preguntas administrativas -> is_search: false y nada más.

8. Esquema JSON de salida:
{
  "is_search": boolean,
  "request_type": "flights" | "hotels" | "combined",
  "flights": {
    "origin": "IATA", "destination": "IATA",
    "departureDate": "YYYY-MM-DD", "returnDate": "YYYY-MM-DD",
    "adults": integer, "children": integer,
    "stops": "direct" | "1" | "with_stops",
    "preferredAirline": "código IATA de aerolínea",
    "luggage": "carry_on" | "checked",
    "maxLayoverHours": integer,
    "cabinClass": "economy" | "premium_economy" | "business" | "first",
    "departureTimePreference": "morning" | "afternoon" | "night",
    "arrivalTimePreference": "morning" | "afternoon" | "night"
  },
  "hotels": {
    "city": "string", "checkinDate": "YYYY-MM-DD", "checkoutDate": "YYYY-MM-DD",
    "adults": integer, "children": integer,
    "roomType": "string", "mealPlan": "string",
    "hotelChains": ["string"], "hotelName": "string",
    "freeCancellation": boolean
  },
  "confidence": number entre 0 y 1
}
Omití por completo los bloques y campos que el mensaje no menciona.`, contextInfo)
}

// extractPrompt instructs the model to read a supplier quote or proposal PDF
// into the structured content schema.
const extractPrompt = `Rol: Extraés datos estructurados de cotizaciones de viaje (texto ya extraído de
un PDF). Los documentos mezclan español e inglés y vienen de proveedores distintos,
con formatos inconsistentes.

REGLAS:
1. Cada tramo de vuelo con precio es una entrada de "flights". route es "XXX - YYY"
   con códigos IATA. direction es "outbound" o "return".
2. Cada hotel es una entrada de "hotels". Si el documento presenta opciones de
   paquete ("OPCIÓN 1", "OPCIÓN 2"), poné optionNumber y packagePrice en el hotel
   de cada opción. Las opciones son alternativas: NUNCA sumes sus precios.
3. Precios: número decimal plano. "1.485" con convención argentina es 1485.
   "2.549,32" es 2549.32. Si no hay precio para un ítem, omitilo.
4. totalPrice: el total explícito del documento si existe; si hay opciones, el
   de la opción más cara; no inventes totales.
5. currency: "USD" salvo que el documento diga otra cosa.
6. Si el texto no parece una cotización de viaje, devolvé {"flights": [], "hotels": []}.

Esquema JSON de salida:
{
  "flights": [{"airline": "string", "airlineCode": "XX", "route": "EZE - CUN",
               "price": number, "dates": "string", "direction": "outbound" | "return",
               "legs": [{"from": "XXX", "to": "YYY", "departureTime": "HH:MM",
                         "arrivalTime": "HH:MM",
                         "layovers": [{"airport": "XXX", "durationMinutes": integer}]}]}],
  "hotels": [{"name": "string", "location": "string", "price": number,
              "nights": integer, "roomType": "string", "mealPlan": "string",
              "optionNumber": integer, "packagePrice": number}],
  "totalPrice": number,
  "currency": "USD",
  "adults": integer,
  "children": integer
}`

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
