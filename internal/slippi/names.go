package slippi

import "fmt"

// characterNames is indexed by external character ID.
var characterNames = [...]string{
	"CaptainFalcon", "DonkeyKong", "Fox", "GameAndWatch", "Kirby", "Bowser",
	"Link", "Luigi", "Mario", "Marth", "Mewtwo", "Ness", "Peach", "Pikachu",
	"IceClimbers", "Jigglypuff", "Samus", "Yoshi", "Zelda", "Sheik", "Falco",
	"YoungLink", "DrMario", "Roy", "Pichu", "Ganondorf",
}

var stageNames = map[uint16]string{
	2:  "FountainOfDreams",
	3:  "PokemonStadium",
	4:  "PrincessPeachsCastle",
	5:  "KongoJungle",
	6:  "Brinstar",
	7:  "Corneria",
	8:  "YoshisStory",
	9:  "Onett",
	10: "MuteCity",
	11: "RainbowCruise",
	12: "JungleJapes",
	13: "GreatBay",
	14: "HyruleTemple",
	15: "BrinstarDepths",
	16: "YoshisIsland",
	17: "GreenGreens",
	18: "Fourside",
	19: "MushroomKingdomI",
	20: "MushroomKingdomII",
	22: "Venom",
	23: "PokeFloats",
	24: "BigBlue",
	25: "IcicleMountain",
	26: "Icetop",
	27: "FlatZone",
	28: "DreamLandN64",
	29: "YoshisIslandN64",
	30: "KongoJungleN64",
	31: "Battlefield",
	32: "FinalDestination",
}

var teamNames = [...]string{"Red", "Blue", "Green"}

// CharacterName maps an external character ID to its label.
func CharacterName(id uint8) string {
	if int(id) < len(characterNames) {
		return characterNames[id]
	}
	return fmt.Sprintf("Unknown(%d)", id)
}

// StageName maps a stage ID to its label.
func StageName(id uint16) string {
	if name, ok := stageNames[id]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", id)
}

// TeamName maps a team ID to its color label.
func TeamName(id uint8) string {
	if int(id) < len(teamNames) {
		return teamNames[id]
	}
	return fmt.Sprintf("Unknown(%d)", id)
}
