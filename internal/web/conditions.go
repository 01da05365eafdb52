package web

// Describe returns the lower-case text for a WMO weather code, or
// "unknown".
func Describe(code int) string {
	switch code {
	case 0:
		return "clear sky"
	case 1:
		return "mainly clear"
	case 2:
		return "partly cloudy"
	case 3:
		return "overcast"
	case 45:
		return "fog"
	case 48:
		return "depositing rime fog"
	case 51:
		return "light drizzle"
	case 53:
		return "drizzle"
	case 55:
		return "dense drizzle"
	case 56:
		return "light freezing drizzle"
	case 57:
		return "freezing drizzle"
	case 61:
		return "slight rain"
	case 63:
		return "rain"
	case 65:
		return "heavy rain"
	case 66:
		return "freezing rain"
	case 67:
		return "heavy freezing rain"
	case 71:
		return "slight snow"
	case 73:
		return "snow"
	case 75:
		return "heavy snow"
	case 77:
		return "snow grains"
	case 80:
		return "slight rain showers"
	case 81:
		return "rain showers"
	case 82:
		return "violent rain showers"
	case 85:
		return "slight snow showers"
	case 86:
		return "heavy snow showers"
	case 95:
		return "thunderstorm"
	case 96:
		return "thunderstorm with hail"
	case 99:
		return "thunderstorm with heavy hail"
	default:
		return "unknown"
	}
}
