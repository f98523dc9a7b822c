package destination

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

// Catalog is the static Halloween trail. Ten destinations, spookiness 1-5.
var Catalog = []Destination{
	{
		ID:          "bran-castle",
		Name:        "Bran Castle",
		Country:     "Romania",
		Description: "Dracula's castle perched over the Bran gorge",
		Latitude:    45.5149,
		Longitude:   25.3672,
		Spookiness:  5,
		Activities: []Activity{
			{Name: "Torchlit tower climb", Spookiness: 5},
			{Name: "Secret passage tour", Spookiness: 4},
		},
		// Flagship destination pays a flat bonus regardless of derivation.
		Override: &RewardOverride{TPX: intPtr(120)},
	},
	{
		ID:          "edinburgh-vaults",
		Name:        "Edinburgh Vaults",
		Country:     "Scotland",
		Description: "Buried chambers beneath South Bridge",
		Latitude:    55.9486,
		Longitude:   -3.1875,
		Spookiness:  4,
		Activities: []Activity{
			{Name: "Candlelight vault walk", Spookiness: 4},
			{Name: "Ghost story circle", Spookiness: 3},
		},
	},
	{
		ID:          "catacombs-paris",
		Name:        "Catacombs of Paris",
		Country:     "France",
		Description: "The empire of the dead under the city of light",
		Latitude:    48.8338,
		Longitude:   2.3324,
		Spookiness:  5,
		Activities: []Activity{
			{Name: "Ossuary descent", Spookiness: 5},
			{Name: "Bone wall photography", Spookiness: 4},
		},
	},
	{
		ID:          "sleepy-hollow",
		Name:        "Sleepy Hollow",
		Country:     "United States",
		Description: "The headless horseman's hunting ground",
		Latitude:    41.0862,
		Longitude:   -73.8585,
		Spookiness:  3,
		Activities: []Activity{
			{Name: "Old Dutch churchyard walk", Spookiness: 3},
			{Name: "Lantern bridge crossing", Spookiness: 2},
		},
	},
	{
		ID:          "aokigahara",
		Name:        "Aokigahara Forest",
		Country:     "Japan",
		Description: "The sea of trees at the foot of Fuji",
		Latitude:    35.4718,
		Longitude:   138.6446,
		Spookiness:  4,
		Activities: []Activity{
			{Name: "Lava cave exploration", Spookiness: 4},
			{Name: "Forest edge hike", Spookiness: 2},
		},
	},
	{
		ID:          "hoia-baciu",
		Name:        "Hoia Baciu Forest",
		Country:     "Romania",
		Description: "The Bermuda Triangle of Transylvania",
		Latitude:    46.7833,
		Longitude:   23.5167,
		Spookiness:  4,
		Activities: []Activity{
			{Name: "Round clearing vigil", Spookiness: 5},
			{Name: "Crooked tree trail", Spookiness: 3},
		},
	},
	{
		ID:          "poveglia",
		Name:        "Poveglia Island",
		Country:     "Italy",
		Description: "Venice's forbidden plague island",
		Latitude:    45.3817,
		Longitude:   12.3311,
		Spookiness:  5,
		Activities: []Activity{
			{Name: "Lagoon night crossing", Spookiness: 5},
			{Name: "Asylum ruins watch", Spookiness: 5},
		},
		Override: &RewardOverride{NFT: boolPtr(true), XP: intPtr(400)},
	},
	{
		ID:          "salem",
		Name:        "Salem",
		Country:     "United States",
		Description: "Witch trial town in full October regalia",
		Latitude:    42.5195,
		Longitude:   -70.8967,
		Spookiness:  2,
		Activities: []Activity{
			{Name: "Witch museum visit", Spookiness: 2},
			{Name: "Burying Point stroll", Spookiness: 2},
		},
	},
	{
		ID:          "sedlec-ossuary",
		Name:        "Sedlec Ossuary",
		Country:     "Czechia",
		Description: "The bone church of Kutna Hora",
		Latitude:    49.9622,
		Longitude:   15.2881,
		Spookiness:  3,
		Activities: []Activity{
			{Name: "Chandelier of bones viewing", Spookiness: 3},
			{Name: "Crypt sketching", Spookiness: 2},
		},
	},
	{
		ID:          "whitby-abbey",
		Name:        "Whitby Abbey",
		Country:     "England",
		Description: "The clifftop ruin that birthed Dracula",
		Latitude:    54.4881,
		Longitude:   -0.6073,
		Spookiness:  3,
		Activities: []Activity{
			{Name: "199 steps at dusk", Spookiness: 3},
			{Name: "Abbey ruin circuit", Spookiness: 3},
		},
	},
}
