package filter

import "strings"

// cityProvince maps major Polish cities to their voivodeship. Listings whose
// city is absent from the table are excluded whenever a province predicate is
// active.
var cityProvince = map[string]string{
	"warszawa":     "mazowieckie",
	"radom":        "mazowieckie",
	"płock":        "mazowieckie",
	"kraków":       "małopolskie",
	"tarnów":       "małopolskie",
	"łódź":         "łódzkie",
	"wrocław":      "dolnośląskie",
	"wałbrzych":    "dolnośląskie",
	"poznań":       "wielkopolskie",
	"kalisz":       "wielkopolskie",
	"gdańsk":       "pomorskie",
	"gdynia":       "pomorskie",
	"sopot":        "pomorskie",
	"szczecin":     "zachodniopomorskie",
	"koszalin":     "zachodniopomorskie",
	"bydgoszcz":    "kujawsko-pomorskie",
	"toruń":        "kujawsko-pomorskie",
	"lublin":       "lubelskie",
	"białystok":    "podlaskie",
	"katowice":     "śląskie",
	"gliwice":      "śląskie",
	"częstochowa":  "śląskie",
	"rzeszów":      "podkarpackie",
	"kielce":       "świętokrzyskie",
	"olsztyn":      "warmińsko-mazurskie",
	"opole":        "opolskie",
	"zielona góra": "lubuskie",
	"gorzów wielkopolski": "lubuskie",
}

// ProvinceForCity resolves a city name to its voivodeship.
func ProvinceForCity(city string) (string, bool) {
	p, ok := cityProvince[strings.ToLower(strings.TrimSpace(city))]
	return p, ok
}
