// Package world provides the Location graph and Route model — design
// doc components E (route) and the Location half of §3. Grounded on the
// teacher's internal/world (hex.go/map.go/settlement_placer.go) and
// internal/weather, generalized from a hex-tile grid with real weather
// API calls to an id-referenced location graph driven by the spec's
// fixed five-state weather enum.
package world

// Weather is the tick's ambient condition, affecting route decay and
// travel cost — design doc §4.E/§4.F.
type Weather uint8

const (
	WeatherClear Weather = iota
	WeatherDrought
	WeatherRain
	WeatherSnow
	WeatherStorm
)
