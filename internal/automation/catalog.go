package automation

import "github.com/nerrad567/homedash-core/internal/device"

// predefinedGlobal is never handed out directly; callers get copies.
var predefinedGlobal = []Scene{
	{
		ID: "alles-aus", Name: "Alles Aus", Icon: "🌙",
		Description: "Schaltet alle Lichter aus",
		Actions: []Action{
			{Room: AllRooms, DeviceType: device.TypeLight, Property: PropertyStatus, Value: 0},
			{Room: AllRooms, DeviceType: device.TypeDimmer, Property: PropertyStatus, Value: 0},
			{Room: AllRooms, DeviceType: device.TypeRGB, Property: PropertyStatus, Value: 0},
		},
	},
	{
		ID: "willkommen", Name: "Willkommen", Icon: "🏠",
		Description: "Eingangsbeleuchtung an",
		Actions: []Action{
			{Room: "wohnzimmer", Device: "Deckenlicht", Property: PropertyStatus, Value: 1},
			{Room: "wohnzimmer", Device: "Deckenlicht", Property: PropertyDimmer, Value: 180},
		},
	},
	{
		ID: "gute-nacht", Name: "Gute Nacht", Icon: "😴",
		Description: "Alles aus, Schlafzimmer gedimmt",
		Actions: []Action{
			{Room: AllRooms, DeviceType: device.TypeLight, Property: PropertyStatus, Value: 0},
			{Room: AllRooms, DeviceType: device.TypeDimmer, Property: PropertyStatus, Value: 0},
			{Room: "schlafzimmer", Device: "Nachttisch", Property: PropertyStatus, Value: 1},
		},
	},
	{
		ID: "storen-auf", Name: "Storen Auf", Icon: "☀️",
		Description: "Alle Storen hochfahren",
		Actions: []Action{
			{Room: AllRooms, DeviceType: device.TypeBlind, Property: PropertyPosition, Value: 0},
		},
	},
	{
		ID: "storen-zu", Name: "Storen Zu", Icon: "🌑",
		Description: "Alle Storen schließen",
		Actions: []Action{
			{Room: AllRooms, DeviceType: device.TypeBlind, Property: PropertyPosition, Value: 100},
		},
	},
}

var predefinedRoom = map[string][]Scene{
	"wohnzimmer": {
		{
			ID: "film", Name: "Film", Icon: "🎬",
			Description: "Ambiente gedimmt, Storen zu",
			Actions: []Action{
				{Device: "Deckenlicht", Property: PropertyStatus, Value: 0},
				{Device: "Ambiente", Property: PropertyStatus, Value: 1},
				{Device: "Ambiente", Property: PropertyDimmer, Value: 60},
				{Device: "Ambiente", Property: PropertyRed, Value: 255},
				{Device: "Ambiente", Property: PropertyGreen, Value: 100},
				{Device: "Ambiente", Property: PropertyBlue, Value: 50},
				{Device: "Storen West", Property: PropertyPosition, Value: 100},
				{Device: "Storen Süd", Property: PropertyPosition, Value: 100},
			},
		},
		{
			ID: "entspannen", Name: "Entspannen", Icon: "🧘",
			Description: "Warmes, gedimmtes Licht",
			Actions: []Action{
				{Device: "Stehlampe", Property: PropertyStatus, Value: 1},
				{Device: "Deckenlicht", Property: PropertyStatus, Value: 1},
				{Device: "Deckenlicht", Property: PropertyDimmer, Value: 80},
				{Device: "Ambiente2", Property: PropertyStatus, Value: 1},
				{Device: "Ambiente2", Property: PropertyDimmer, Value: 100},
			},
		},
		{
			ID: "hell", Name: "Hell", Icon: "💡",
			Description: "Maximale Helligkeit",
			Actions: []Action{
				{Device: "Stehlampe", Property: PropertyStatus, Value: 1},
				{Device: "Deckenlicht", Property: PropertyStatus, Value: 1},
				{Device: "Deckenlicht", Property: PropertyDimmer, Value: 255},
			},
		},
	},
	"kueche": {
		{
			ID: "kochen", Name: "Kochen", Icon: "👨‍🍳",
			Description: "Volle Beleuchtung",
			Actions:     []Action{{Device: "Hauptlicht", Property: PropertyStatus, Value: 1}},
		},
	},
	"schlafzimmer": {
		{
			ID: "lesen", Name: "Lesen", Icon: "📖",
			Description: "Nachttischlampe an",
			Actions:     []Action{{Device: "Nachttisch", Property: PropertyStatus, Value: 1}},
		},
		{
			ID: "schlafen", Name: "Schlafen", Icon: "💤",
			Description: "Alles aus",
			Actions:     []Action{{Device: "Nachttisch", Property: PropertyStatus, Value: 0}},
		},
	},
	"bad": {
		{
			ID: "morgen", Name: "Morgen", Icon: "🌅",
			Description: "Helle Spiegelbeleuchtung",
			Actions:     []Action{{Device: "Spiegel", Property: PropertyStatus, Value: 1}},
		},
	},
}

// PredefinedGlobalScenes returns copies of the built-in global scenes.
func PredefinedGlobalScenes() []Scene {
	return copyScenes(predefinedGlobal)
}

// PredefinedRoomScenes returns copies of the built-in room scenes keyed by
// room id.
func PredefinedRoomScenes() map[string][]Scene {
	return copyRoomScenes(predefinedRoom)
}
