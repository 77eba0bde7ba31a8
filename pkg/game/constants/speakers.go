package constants

// Speaker is the character portrait shown next to a line of dialogue. On
// disk the speaker doubles as the dialogue command byte, so only values of
// FIRST_SPEAKER and above are speakers at all.
type Speaker uint8

const FIRST_SPEAKER Speaker = 128

const (
	Banjo Speaker = iota + FIRST_SPEAKER
	Kazooie
	Kazooie2
	Bottles
	Mumbo
	Chimpy
	Conga
	Blubber
	Nipper
	Clanker
	MutieSnippet
	MrVile
	ChoirMember
	Tanktup
	YellowFlibbit
	Trunker
	Rubee
	Gobi
	Grabba
	Napper
	YellowJinjo
	GreenJinjo
	BlueJinjo
	PinkJinjo
	OrangeJinjo
	Note
	Orange
	BlueEgg
	RedFeather
	GoldFeather
	Conga2
	BlubbersGold
	Beehive
	EmptyHoneycombSpeaker
	ExtraLifeSpeaker
	Jiggy
	Beehive2
	WadingBootsSpeaker
	TurboTrainers
	BgsPiranha
	Ticker
	JuJu
	YumYum
	LittleLockup
	Leaky
	Gloop
	Tiptup
	Snacker
	Jinxy
	GvSandEel
	Snorkel
	AncientOnes
	Croctus
	Gruntilda
	Tooty
	Boggy
	Wozza
	Motzand
	Tumblar
	MumMum
	Present
	Caterpillar
	FpIceWater
	Twinklie
	TwinklieMuncher
	Gnawty
	BossBoomBox
	Zubba
	Nabnut
	BoggysKids
	BabyEyrie1
	BabyEyrie2
	BabyEyrie3
	AdultEyrie
	Cauldron
	Brentilda
	Tooty2
	BlackSnippet
	Loggo
	Cheato
	Present2
	Present3
	Klungo
	SexyGrunty
	UglyTooty
	Banjo2
	Kazooie3
	Tooty3
	Dingpot
	MrVile2
	Gruntilda2
	Lockup
)

var speakerNames = []string{
	"Banjo", "Kazooie", "Kazooie2", "Bottles", "Mumbo", "Chimpy", "Conga",
	"Blubber", "Nipper", "Clanker", "MutieSnippet", "MrVile", "ChoirMember",
	"Tanktup", "YellowFlibbit", "Trunker", "Rubee", "Gobi", "Grabba",
	"Napper", "YellowJinjo", "GreenJinjo", "BlueJinjo", "PinkJinjo",
	"OrangeJinjo", "Note", "Orange", "BlueEgg", "RedFeather", "GoldFeather",
	"Conga2", "BlubbersGold", "Beehive", "EmptyHoneycomb", "ExtraLife",
	"Jiggy", "Beehive2", "WadingBoots", "TurboTrainers", "BgsPiranha",
	"Ticker", "JuJu", "YumYum", "LittleLockup", "Leaky", "Gloop", "Tiptup",
	"Snacker", "Jinxy", "GvSandEel", "Snorkel", "AncientOnes", "Croctus",
	"Gruntilda", "Tooty", "Boggy", "Wozza", "Motzand", "Tumblar", "MumMum",
	"Present", "Caterpillar", "FpIceWater", "Twinklie", "TwinklieMuncher",
	"Gnawty", "BossBoomBox", "Zubba", "Nabnut", "BoggysKids", "BabyEyrie1",
	"BabyEyrie2", "BabyEyrie3", "AdultEyrie", "Cauldron", "Brentilda",
	"Tooty2", "BlackSnippet", "Loggo", "Cheato", "Present2", "Present3",
	"Klungo", "SexyGrunty", "UglyTooty", "Banjo2", "Kazooie3", "Tooty3",
	"Dingpot", "MrVile2", "Gruntilda2", "Lockup",
}

func (s Speaker) IsKnown() bool {
	return s >= FIRST_SPEAKER && s <= Lockup
}

func (s Speaker) String() string {
	if !s.IsKnown() {
		return describe(map[Speaker]string{}, s)
	}
	return speakerNames[s-FIRST_SPEAKER]
}
