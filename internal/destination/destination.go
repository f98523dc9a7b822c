package destination

// Activity is a single thing to do at a destination. Ratings run 1-5 like
// the destination's own spookiness.
type Activity struct {
	Name       string `json:"name"`
	Spookiness int    `json:"spookiness"`
}

// RewardOverride lets a catalog entry replace the derived template values.
// Nil fields fall back to the derivation.
type RewardOverride struct {
	XP  *int
	TPX *int
	NFT *bool
}

type Destination struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Country     string     `json:"country"`
	Description string     `json:"description"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	Spookiness  int        `json:"spookiness"`
	Activities  []Activity `json:"activities"`

	Override *RewardOverride `json:"-"`
}

// Template is the deterministic default quest for a destination: derived
// only from static catalog data, so the same destination always yields the
// same template regardless of who asks or when.
type Template struct {
	Title     string `json:"title"`
	XPReward  int    `json:"xp_reward"`
	TPXReward int    `json:"tpx_reward"`
	NFTReward bool   `json:"nft_reward"`
}

const (
	xpPerSpookiness  = 60
	tpxPerSpookiness = 15
	nftSpookinessMin = 4
)

// QuestTemplate derives the default quest for d. Overrides win over the
// spookiness-based derivation per field.
func QuestTemplate(d Destination) Template {
	t := Template{
		Title:     "Survive the night at " + d.Name,
		XPReward:  d.Spookiness * xpPerSpookiness,
		TPXReward: d.Spookiness * tpxPerSpookiness,
		NFTReward: d.Spookiness >= nftSpookinessMin,
	}
	if d.Override != nil {
		if d.Override.XP != nil {
			t.XPReward = *d.Override.XP
		}
		if d.Override.TPX != nil {
			t.TPXReward = *d.Override.TPX
		}
		if d.Override.NFT != nil {
			t.NFTReward = *d.Override.NFT
		}
	}
	return t
}

// ByID looks a destination up in the static catalog.
func ByID(id string) (Destination, bool) {
	for _, d := range Catalog {
		if d.ID == id {
			return d, true
		}
	}
	return Destination{}, false
}
