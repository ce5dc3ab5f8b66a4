package device

// ClimateActivity describes what the room's heating is doing.
type ClimateActivity string

// Climate activities shown on the room overview.
const (
	ClimateIdle    ClimateActivity = "idle"
	ClimateHeating ClimateActivity = "heating"
	ClimateCooling ClimateActivity = "cooling"
)

// Summary is the room overview tile.
type Summary struct {
	RoomID      string          `json:"roomId"`
	Title       string          `json:"title"`
	Icon        string          `json:"icon"`
	LightsOn    int             `json:"lightsOn"`
	LightsTotal int             `json:"lightsTotal"`
	Blinds      int             `json:"blinds"`
	HasHeating  bool            `json:"hasHeating"`
	CurrentTemp float64         `json:"currentTemp"`
	TargetTemp  float64         `json:"targetTemp"`
	Humidity    int             `json:"humidity"`
	Climate     ClimateActivity `json:"climate"`
}

// Summarize counts the room's lights and blinds and works out the climate
// activity. Rooms without a heating device are always idle. In heating mode
// the room is heating while the target is above the current temperature; in
// cooling mode it is cooling while the target is below it.
func Summarize(r *Room, cfg SystemConfig) Summary {
	s := Summary{
		RoomID:      r.ID,
		Title:       r.Title,
		Icon:        r.Icon,
		CurrentTemp: r.CurrentTemp,
		TargetTemp:  r.TargetTemp,
		Humidity:    r.Humidity,
		Climate:     ClimateIdle,
	}

	for _, d := range r.Controls {
		switch v := d.(type) {
		case Switchable:
			s.LightsTotal++
			if v.IsOn() {
				s.LightsOn++
			}
		case *Blind:
			s.Blinds++
		case *Heating:
			s.HasHeating = true
		}
	}

	switch {
	case !s.HasHeating:
	case cfg.Heating && r.TargetTemp > r.CurrentTemp:
		s.Climate = ClimateHeating
	case !cfg.Heating && r.TargetTemp < r.CurrentTemp:
		s.Climate = ClimateCooling
	}
	return s
}
