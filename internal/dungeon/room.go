package dungeon

type RoomKind string

const (
	Normal   RoomKind = "normal"
	Elite    RoomKind = "elite"
	Treasure RoomKind = "treasure"
	Rest     RoomKind = "rest"
	Boss     RoomKind = "boss"
)

// Combat is the plain fight room; elite and treasure rooms use the same fill
// pass with different multipliers.
const Combat = Normal

func (k RoomKind) IsCombat() bool {
	return k == Normal || k == Elite || k == Treasure
}
