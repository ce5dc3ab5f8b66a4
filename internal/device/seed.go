package device

// SeedRooms returns the fixed set of rooms the dashboard starts with, in
// display order.
func SeedRooms() []*Room {
	const (
		bulb    = "💡"
		rainbow = "🌈"
		window  = "🪟"
		thermo  = "🌡️"
	)
	heating := func() Device { return &Heating{Info: Info{Name: "Heizung", Icon: thermo}} }

	return []*Room{
		{
			ID: "wohnzimmer", Title: "Wohnzimmer", Icon: "🛋️",
			CurrentTemp: 22, TargetTemp: 23, Humidity: 45,
			Controls: []Device{
				&Light{Info: Info{Name: "Stehlampe", Icon: bulb}},
				&Dimmer{Info: Info{Name: "Deckenlicht", Icon: bulb}, Dimming: Dimming{On: true, Brightness: 128}},
				&RGBLight{Info: Info{Name: "Ambiente", Icon: rainbow}, Dimming: Dimming{Brightness: 200}, RGB: RGB{R: 255}},
				&RGBLight{Info: Info{Name: "Ambiente2", Icon: rainbow}, Dimming: Dimming{On: true, Brightness: 150}, RGB: RGB{R: 100, G: 200, B: 70}},
				&Blind{Info: Info{Name: "Storen West", Icon: window}, Duration: 25},
				&Blind{Info: Info{Name: "Storen Süd", Icon: window}, Duration: 40},
				heating(),
			},
		},
		{
			ID: "kueche", Title: "Küche", Icon: "🍳",
			CurrentTemp: 22, TargetTemp: 23, Humidity: 50,
			Controls: []Device{
				&Light{Info: Info{Name: "Hauptlicht", Icon: bulb}, Switch: Switch{On: true}},
				heating(),
			},
		},
		{
			ID: "schlafzimmer", Title: "Schlafzimmer", Icon: "🛏️",
			CurrentTemp: 22, TargetTemp: 23, Humidity: 60,
			Controls: []Device{
				&Light{Info: Info{Name: "Nachttisch", Icon: bulb}},
				heating(),
			},
		},
		{
			ID: "bad", Title: "Bad", Icon: "🚿",
			CurrentTemp: 24, TargetTemp: 23, Humidity: 48,
			Controls: []Device{
				&Light{Info: Info{Name: "Spiegel", Icon: bulb}},
				heating(),
			},
		},
	}
}
