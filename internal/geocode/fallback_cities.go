package geocode

import "strings"

type cityCenter struct {
	name string
	lat  float64
	lng  float64
}

// City-center coordinates used when the provider is unreachable or finds
// nothing. Matched case-insensitively by substring against the raw address.
var fallbackCities = []cityCenter{
	{"Warszawa", 52.2297, 21.0122},
	{"Kraków", 50.0647, 19.9450},
	{"Łódź", 51.7592, 19.4560},
	{"Wrocław", 51.1079, 17.0385},
	{"Poznań", 52.4064, 16.9252},
	{"Gdańsk", 54.3520, 18.6466},
	{"Szczecin", 53.4285, 14.5528},
	{"Bydgoszcz", 53.1235, 18.0084},
	{"Lublin", 51.2465, 22.5684},
	{"Białystok", 53.1325, 23.1688},
	{"Katowice", 50.2649, 19.0238},
	{"Gdynia", 54.5189, 18.5305},
	{"Częstochowa", 50.8118, 19.1203},
	{"Radom", 51.4027, 21.1471},
	{"Sosnowiec", 50.2863, 19.1041},
	{"Toruń", 53.0138, 18.5984},
	{"Kielce", 50.8661, 20.6286},
	{"Rzeszów", 50.0412, 21.9991},
	{"Gliwice", 50.2945, 18.6714},
	{"Zabrze", 50.3249, 18.7857},
	{"Olsztyn", 53.7784, 20.4801},
	{"Bielsko-Biała", 49.8224, 19.0584},
	{"Opole", 50.6751, 17.9213},
	{"Zielona Góra", 51.9356, 15.5062},
	{"Sopot", 54.4416, 18.5601},
}

// FallbackCity scans the static table for a city name contained in the
// address.
func FallbackCity(address string) (Result, bool) {
	needle := strings.ToLower(address)
	for _, c := range fallbackCities {
		if strings.Contains(needle, strings.ToLower(c.name)) {
			return Result{Latitude: c.lat, Longitude: c.lng, Address: c.name}, true
		}
	}
	return Result{}, false
}
