package entity

// SpotType 关键方位类型
type SpotType string

const (
	SpotWealth     SpotType = "wealth"
	SpotStudy      SpotType = "study"
	SpotRomance    SpotType = "romance"
	SpotBenefactor SpotType = "benefactor"
)

// KeySpot 关键方位
type KeySpot struct {
	Type        SpotType  `json:"type"`
	Label       string    `json:"label"`
	Palace      Palace    `json:"palace"`
	Direction   Direction `json:"direction"`
	Description string    `json:"description"`
	Rank        int       `json:"rank"`
	Warnings    []string  `json:"warnings,omitempty"`
}

// KeyPositions 个性化关键方位
type KeyPositions struct {
	MainDirection Direction `json:"mainDirection"`
	Usage         string    `json:"usage,omitempty"`
	Zodiac        string    `json:"zodiac,omitempty"`
	Spots         []KeySpot `json:"spots"`
}

// Pillar 八字一柱
type Pillar struct {
	Stem   string `json:"stem"`
	Branch string `json:"branch"`
}

// Bazi 四柱
type Bazi struct {
	Year  Pillar `json:"year"`
	Month Pillar `json:"month"`
	Day   Pillar `json:"day"`
	Hour  Pillar `json:"hour"`
}

// PlacedObject 已摆放物品
type PlacedObject struct {
	Type      string    `json:"type"`
	Direction Direction `json:"direction"`
}

// UserProfile 用户信息
type UserProfile struct {
	Bazi       *Bazi          `json:"bazi,omitempty"`
	Priorities []string       `json:"priorities,omitempty"`
	BirthYear  int            `json:"birthYear,omitempty"`
	Usage      string         `json:"usage,omitempty"`
	Objects    []PlacedObject `json:"objects,omitempty"`
}
