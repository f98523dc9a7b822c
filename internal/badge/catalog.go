package badge

// Catalog is the static badge registry for the Halloween season. Thresholds
// deliberately overlap per kind so several badges can unlock off the same
// counter.
var Catalog = []Badge{
	{
		ID:          "first-haunt",
		Name:        "First Haunt",
		Description: "Visit your first haunted destination",
		Icon:        "ghost",
		Rarity:      RarityCommon,
		Requirement: Requirement{Kind: KindDestinationsVisited, Threshold: 1},
	},
	{
		ID:          "grave-wanderer",
		Name:        "Grave Wanderer",
		Description: "Visit 3 haunted destinations",
		Icon:        "tombstone",
		Rarity:      RarityCommon,
		Requirement: Requirement{Kind: KindDestinationsVisited, Threshold: 3},
	},
	{
		ID:          "spirit-cartographer",
		Name:        "Spirit Cartographer",
		Description: "Visit 5 haunted destinations",
		Icon:        "map",
		Rarity:      RarityRare,
		Requirement: Requirement{Kind: KindDestinationsVisited, Threshold: 5},
	},
	{
		ID:          "midnight-pilgrim",
		Name:        "Midnight Pilgrim",
		Description: "Visit 8 haunted destinations",
		Icon:        "lantern",
		Rarity:      RarityEpic,
		Requirement: Requirement{Kind: KindDestinationsVisited, Threshold: 8},
	},
	{
		ID:          "season-of-the-witch",
		Name:        "Season of the Witch",
		Description: "Visit every destination on the trail",
		Icon:        "witch-hat",
		Rarity:      RarityLegendary,
		Requirement: Requirement{Kind: KindDestinationsVisited, Threshold: 10},
	},
	{
		ID:          "quest-initiate",
		Name:        "Quest Initiate",
		Description: "Complete your first quest",
		Icon:        "scroll",
		Rarity:      RarityCommon,
		Requirement: Requirement{Kind: KindQuestsCompleted, Threshold: 1},
	},
	{
		ID:          "quest-adept",
		Name:        "Quest Adept",
		Description: "Complete 4 quests",
		Icon:        "candle",
		Rarity:      RarityRare,
		Requirement: Requirement{Kind: KindQuestsCompleted, Threshold: 4},
	},
	{
		ID:          "quest-reaper",
		Name:        "Quest Reaper",
		Description: "Complete 7 quests",
		Icon:        "scythe",
		Rarity:      RarityEpic,
		Requirement: Requirement{Kind: KindQuestsCompleted, Threshold: 7},
	},
	{
		ID:          "pumpkin-purse",
		Name:        "Pumpkin Purse",
		Description: "Earn 100 TPX this season",
		Icon:        "pumpkin",
		Rarity:      RarityCommon,
		Requirement: Requirement{Kind: KindTokensEarned, Threshold: 100},
	},
	{
		ID:          "cauldron-of-coin",
		Name:        "Cauldron of Coin",
		Description: "Earn 300 TPX this season",
		Icon:        "cauldron",
		Rarity:      RarityRare,
		Requirement: Requirement{Kind: KindTokensEarned, Threshold: 300},
	},
	{
		ID:          "hoard-of-the-barrow",
		Name:        "Hoard of the Barrow",
		Description: "Earn 600 TPX this season",
		Icon:        "chest",
		Rarity:      RarityEpic,
		Requirement: Requirement{Kind: KindTokensEarned, Threshold: 600},
	},
	{
		ID:          "dragon-sickness",
		Name:        "Dragon Sickness",
		Description: "Earn 1000 TPX this season",
		Icon:        "dragon",
		Rarity:      RarityLegendary,
		Requirement: Requirement{Kind: KindTokensEarned, Threshold: 1000},
	},
}
