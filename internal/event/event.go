package event

import "crawl_core/internal/grid"

type Type string

const (
	EnemyMoved         Type = "EnemyMoved"
	EnemyKilled        Type = "EnemyKilled"
	BombPlaced         Type = "BombPlaced"
	BombExploded       Type = "BombExploded"
	BlockDestroyed     Type = "BlockDestroyed"
	PowerUpCollected   Type = "PowerUpCollected"
	MinionSpawned      Type = "MinionSpawned"
	PlayerKilled       Type = "PlayerKilled"
	PlayerHit          Type = "PlayerHit"
	PlayerMoved        Type = "PlayerMoved"
	BossEntranceEnd    Type = "BossEntranceEnd"
	PhaseChanged       Type = "PhaseChanged"
	BossAttackStart    Type = "BossAttackStart"
	BossAttackEnd      Type = "BossAttackEnd"
	BossEnraged        Type = "BossEnraged"
	BossDefeated       Type = "BossDefeated"
	HazardSpawned      Type = "HazardSpawned"
	FireTrail          Type = "FireTrail"
	CurseApplied       Type = "CurseApplied"
	CurseRemoved       Type = "CurseRemoved"
	CurseTransferred   Type = "CurseTransferred"
	SuddenDeathStarted Type = "SuddenDeathStarted"
	ObstacleDropped    Type = "ObstacleDropped"
	RoomEntered        Type = "RoomEntered"
	RoomCleared        Type = "RoomCleared"
	CountdownTick      Type = "CountdownTick"
)

// Event is one discrete action record produced during a tick. The shell
// applies it to authoritative state and broadcasts it.
type Event struct {
	T        float64  `json:"t" msgpack:"t"`
	Type     Type     `json:"type" msgpack:"k"`
	Actor    string   `json:"actor,omitempty" msgpack:"a,omitempty"`
	Target   string   `json:"target,omitempty" msgpack:"g,omitempty"`
	Pos      grid.Pos `json:"pos" msgpack:"p"`
	Value    int      `json:"value,omitempty" msgpack:"v,omitempty"`
	Detail   string   `json:"detail,omitempty" msgpack:"d,omitempty"`
	Duration float64  `json:"duration,omitempty" msgpack:"u,omitempty"`
}
