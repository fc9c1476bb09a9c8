// README: Static airline tables (IATA code -> name, alias -> IATA code).
package airline

// Detection is the result of finding an airline mention in free text.
type Detection struct {
	Code       string
	Name       string
	Confidence float64
}

// officialNames maps IATA codes to display names used in proposals.
var officialNames = map[string]string{
	"AR": "Aerolíneas Argentinas",
	"LA": "LATAM Airlines",
	"AV": "Avianca",
	"CM": "Copa Airlines",
	"AA": "American Airlines",
	"UA": "United Airlines",
	"DL": "Delta Air Lines",
	"IB": "Iberia",
	"UX": "Air Europa",
	"AF": "Air France",
	"KL": "KLM",
	"BA": "British Airways",
	"LH": "Lufthansa",
	"AZ": "ITA Airways",
	"TK": "Turkish Airlines",
	"EK": "Emirates",
	"QR": "Qatar Airways",
	"G3": "GOL Linhas Aéreas",
	"AD": "Azul Linhas Aéreas",
	"JA": "JetSMART",
	"FO": "Flybondi",
	"H2": "SKY Airline",
	"AM": "Aeroméxico",
	"B6": "JetBlue",
	"TP": "TAP Air Portugal",
	"AC": "Air Canada",
	"AE": "Arajet",
	"WJ": "JetSMART Argentina",
}

// aliases maps normalized (lowercase, accent-stripped) free-text names to
// IATA codes. Keys cover brand names, misspellings and legacy names agents
// actually type.
var aliases = map[string]string{
	"aerolineas argentinas": "AR",
	"aerolineas":            "AR",
	"aerolinas argentinas":  "AR",
	"latam":                 "LA",
	"latam airlines":        "LA",
	"lan":                   "LA",
	"lan chile":             "LA",
	"tam":                   "LA",
	"avianca":               "AV",
	"copa":                  "CM",
	"copa airlines":         "CM",
	"american":              "AA",
	"american airlines":     "AA",
	"american arlines":      "AA",
	"united":                "UA",
	"united airlines":       "UA",
	"delta":                 "DL",
	"delta airlines":        "DL",
	"iberia":                "IB",
	"air europa":            "UX",
	"aireuropa":             "UX",
	"air france":            "AF",
	"airfrance":             "AF",
	"klm":                   "KL",
	"british airways":       "BA",
	"british":               "BA",
	"lufthansa":             "LH",
	"luftansa":              "LH",
	"alitalia":              "AZ",
	"ita airways":           "AZ",
	"turkish":               "TK",
	"turkish airlines":      "TK",
	"emirates":              "EK",
	"qatar":                 "QR",
	"qatar airways":         "QR",
	"gol":                   "G3",
	"azul":                  "AD",
	"jetsmart":              "JA",
	"jet smart":             "JA",
	"flybondi":              "FO",
	"fly bondi":             "FO",
	"flibondi":              "FO",
	"sky airline":           "H2",
	"sky airlines":          "H2",
	"aeromexico":            "AM",
	"jetblue":               "B6",
	"jet blue":              "B6",
	"tap":                   "TP",
	"tap portugal":          "TP",
	"air canada":            "AC",
	"arajet":                "AE",
}
