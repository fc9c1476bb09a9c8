// README: Static airport-code -> city table for normalizing AI extractions.
package pdfdoc

import "strings"

var airportCities = map[string]string{
	"EZE": "Buenos Aires",
	"AEP": "Buenos Aires",
	"COR": "Córdoba",
	"MDZ": "Mendoza",
	"ROS": "Rosario",
	"SLA": "Salta",
	"BRC": "Bariloche",
	"IGR": "Iguazú",
	"USH": "Ushuaia",
	"CUN": "Cancún",
	"PUJ": "Punta Cana",
	"MIA": "Miami",
	"MCO": "Orlando",
	"JFK": "Nueva York",
	"LGA": "Nueva York",
	"EWR": "Nueva York",
	"LAX": "Los Ángeles",
	"GRU": "San Pablo",
	"GIG": "Río de Janeiro",
	"FLN": "Florianópolis",
	"REC": "Recife",
	"SSA": "Salvador de Bahía",
	"SCL": "Santiago de Chile",
	"LIM": "Lima",
	"BOG": "Bogotá",
	"CTG": "Cartagena",
	"PTY": "Ciudad de Panamá",
	"HAV": "La Habana",
	"VRA": "Varadero",
	"SJO": "San José",
	"MVD": "Montevideo",
	"PDP": "Punta del Este",
	"ASU": "Asunción",
	"MEX": "Ciudad de México",
	"MAD": "Madrid",
	"BCN": "Barcelona",
	"FCO": "Roma",
	"CDG": "París",
	"LIS": "Lisboa",
	"LHR": "Londres",
	"AMS": "Ámsterdam",
	"FRA": "Fráncfort",
	"IST": "Estambul",
	"DXB": "Dubái",
}

// CityForAirport resolves an IATA airport code to its city, falling back to
// the raw code when unknown so a missing table entry never blanks a route.
func CityForAirport(code string) string {
	key := strings.ToUpper(strings.TrimSpace(code))
	if city, ok := airportCities[key]; ok {
		return city
	}
	return key
}
